package main

import (
	"fmt"
	"os"

	"github.com/plotnest/syndicate/config"
	"github.com/plotnest/syndicate/mq_client"
	"github.com/plotnest/syndicate/workers"
)

func CreateWorker(id string) workers.Worker {
	switch id {
	case "commission_settler":
		return workers.NewCommissionSettlerWorker()
	default:
		return nil
	}
}

func main() {
	if err := config.InitializeConfig(); err != nil {
		fmt.Println(err.Error())
		return
	}

	if err := mq_client.Connect(); err != nil {
		fmt.Println(err.Error())
		return
	}

	Channel := mq_client.GetChannel()

	ARVG := os.Args[1:]

	for _, id := range ARVG {
		fmt.Println("Start syndicate-daemon: " + id)
		worker := CreateWorker(id)

		prefetch := mq_client.GetPrefetchCount(id)

		if prefetch > 0 {
			Channel.Qos(prefetch, 0, false)
		}

		binding_queue := mq_client.GetBindingQueue(id)
		binding_exchange_id := mq_client.GetBindingExchangeId(id)
		exchange_name, exchange_kind := mq_client.GetExchange(binding_exchange_id)
		routing_key := mq_client.GetRoutingKey(id)

		if err := Channel.ExchangeDeclare(exchange_name, exchange_kind, binding_queue.Durable, false, false, false, nil); err != nil {
			config.Logger.Errorf("Exchange Declare: %v", err)
			return
		}
		if _, err := Channel.QueueDeclare(binding_queue.Name, binding_queue.Durable, false, false, false, nil); err != nil {
			config.Logger.Errorf("Queue Declare: %v", err)
			return
		}
		Channel.QueueBind(binding_queue.Name, routing_key, exchange_name, false, nil)

		deliveries, err := Channel.Consume(binding_queue.Name, id, false, false, false, false, nil)
		if err != nil {
			config.Logger.Errorf("Queue Consume: %v", err)
			return
		}

		for delivery := range deliveries {
			if err := worker.Process(delivery.Body); err == nil {
				delivery.Ack(false)
			} else {
				config.Logger.Errorf("Worker error: %v", err.Error())
				delivery.Nack(false, true)
			}
		}
	}
}
