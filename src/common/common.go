package common

import (
	"awm/src/lib"
	awslib "awm/src/lib/aws"
	"awm/src/utils"
	"log"
	"os"

	"awm/src/types"
)

// Consumers wires up the queue consumers for the current environment. Local
// environments consume from Kafka, deployed environments from SQS.
func Consumers() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == string(types.Local) {
		lib.KafkaTopicConsumer("awm-emails", utils.WithSuffix("Emails"), func(value []byte) {
			EmailsHandler(string(value))
		})
		lib.KafkaTopicConsumer("awm-reconcile", utils.WithSuffix("PaymentsReconcile"), func(value []byte) {
			PaymentsReconcileHandler(string(value))
		})
		return
	}
	dlq := awslib.NewSQSConsumer(utils.WithSuffix("DLQ"), func(payload string) {
		log.Println("DLQ: message received")
	})
	dlq.Listen()
	emails := awslib.NewSQSConsumer(utils.WithSuffix("Emails"), EmailsHandler)
	emails.Listen()
	reconcile := awslib.NewSQSConsumer(utils.WithSuffix("PaymentsReconcile"), PaymentsReconcileHandler)
	reconcile.Listen()
	events := awslib.NewSQSConsumer(utils.WithSuffix("PaymentEvents"), PaymentEventsHandler)
	events.Listen()
}

func SNSSubscribes() {
	paymentEvents := awslib.NewSNSSubscriber(utils.WithSuffix("PaymentEvents"))
	paymentEvents.Subscribe("sqs", lib.GetQueueArn(utils.WithSuffix("PaymentEvents")))
}
