package events

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("kafka writer", func() {
	newEvent := func() cloudevents.Event {
		e := cloudevents.NewEvent()
		e.SetID("event-1")
		e.SetType(JobRetriedKind)
		e.SetSource(defaultSource)
		Expect(e.SetData(cloudevents.ApplicationJSON, JobEvent{JobID: "job_1", Status: "pending"})).To(Succeed())
		return e
	}

	It("sends the event as structured cloudevents json", func() {
		producer := mocks.NewSyncProducer(GinkgoT(), nil)
		producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
			var body map[string]any
			if err := json.Unmarshal(val, &body); err != nil {
				return err
			}
			if body["id"] != "event-1" || body["type"] != JobRetriedKind {
				return errors.New("unexpected event envelope")
			}
			data, ok := body["data"].(map[string]any)
			if !ok || data["job_id"] != "job_1" {
				return errors.New("unexpected event data")
			}
			return nil
		})

		w := newKafkaWriter(producer)
		Expect(w.Write(context.TODO(), "jobs", newEvent())).To(Succeed())
		Expect(w.Close(context.TODO())).To(Succeed())
	})

	It("returns the producer error", func() {
		producer := mocks.NewSyncProducer(GinkgoT(), nil)
		producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

		w := newKafkaWriter(producer)
		Expect(w.Write(context.TODO(), "jobs", newEvent())).To(MatchError(sarama.ErrOutOfBrokers))
		Expect(w.Close(context.TODO())).To(Succeed())
	})
})
