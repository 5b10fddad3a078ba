package order

import (
	"encoding/json"
	"strconv"

	"github.com/google/uuid"

	"github.com/MikeMC777/ecommerce-api/internal/broker"
)

// CreatedEvent is the body published to the orders queue.
type CreatedEvent struct {
	OrderID    int64              `json:"order_id"`
	CustomerID int64              `json:"customer_id"`
	Items      []CreatedEventItem `json:"items"`
}

type CreatedEventItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func NewCreatedEvent(o *Order) CreatedEvent {
	evt := CreatedEvent{OrderID: o.ID, CustomerID: o.CustomerID, Items: make([]CreatedEventItem, len(o.Items))}
	for i, it := range o.Items {
		evt.Items[i] = CreatedEventItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return evt
}

// Message encodes the event for queue, keyed by order id.
func (e CreatedEvent) Message(queue string) (broker.Message, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return broker.Message{}, err
	}
	return broker.Message{
		ID:          uuid.NewString(),
		Queue:       queue,
		Key:         strconv.FormatInt(e.OrderID, 10),
		ContentType: broker.ContentTypeJSON,
		Body:        body,
	}, nil
}
