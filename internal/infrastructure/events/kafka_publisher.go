// Package events publica eventos de dominio en Kafka. La publicación es
// best effort: ocurre después del commit y un fallo solo se registra en el
// log, nunca afecta la transacción ya confirmada.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/tu-usuario/taller-pro/pkg/logger"
)

// envelope sobre común de todos los eventos publicados.
type envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// KafkaPublisher implementación del puerto EventPublisher sobre Kafka.
// Una sola instancia comparte el writer entre todos los casos de uso.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *logger.Logger
}

// NewKafkaPublisher construye el publicador. El topic es único; el tipo del
// evento viaja en la llave del mensaje para particionar por tipo.
func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 100 * time.Millisecond,
		BatchSize:    10,
		Async:        true,
	}
	return &KafkaPublisher{writer: writer, log: log}
}

// Publish serializa y envía el evento. Nunca devuelve error: si la
// publicación falla, se registra y se sigue adelante.
func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		p.log.Error().Err(err).Str("event_type", eventType).Msg("evento: serializar payload")
		return
	}
	msg := envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    body,
	}
	value, err := json.Marshal(msg)
	if err != nil {
		p.log.Error().Err(err).Str("event_type", eventType).Msg("evento: serializar sobre")
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(eventType),
		Value: value,
	}); err != nil {
		p.log.Error().Err(err).Str("event_type", eventType).Msg("evento: publicar en kafka")
	}
}

// Close cierra el writer drenando los mensajes pendientes.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher publicador nulo para entornos sin Kafka (tests, desarrollo local).
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (NoopPublisher) Publish(context.Context, string, any) {}
