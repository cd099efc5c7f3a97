package sse

import (
	"time"

	"github.com/kesorhosting-wq/testtopupkesor/internal/models"
)

// OrderNotifier is the interface services use to emit order events.
type OrderNotifier interface {
	NotifyOrderPaid(o *models.Order)
	NotifyOrderStatusChanged(o *models.Order)
}

// HubNotifier implements OrderNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyOrderPaid(o *models.Order) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(orderToEvent(EventOrderPaid, o))
}

func (n *HubNotifier) NotifyOrderStatusChanged(o *models.Order) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(orderToEvent(EventOrderStatusChanged, o))
}

func orderToEvent(eventType EventType, o *models.Order) *OrderEvent {
	return &OrderEvent{
		Event:         eventType,
		OrderID:       o.ID,
		GameName:      o.GameName,
		PackageName:   o.PackageName,
		Status:        string(o.Status),
		StatusMessage: o.StatusMessage,
		Timestamp:     time.Now(),
	}
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (n *NopNotifier) NotifyOrderPaid(o *models.Order)          {}
func (n *NopNotifier) NotifyOrderStatusChanged(o *models.Order) {}
