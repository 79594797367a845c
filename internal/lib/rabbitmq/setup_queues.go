package rabbitmq

// NotificationsExchange имя exchange, через который идут все письма системы.
const NotificationsExchange = "notifications"

// Маршрутные ключи событий уведомлений.
const (
	RoutingKeyResetRequested = "reset.requested"
	RoutingKeyStatusChanged  = "status.changed"
)

// QueueConfig пара очередь/маршрутный ключ для привязки к exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди почтового воркера.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notification.reset", RoutingKey: RoutingKeyResetRequested},
		{QueueName: "notification.status", RoutingKey: RoutingKeyStatusChanged},
	}
}
