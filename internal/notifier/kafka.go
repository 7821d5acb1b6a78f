package notifier

import (
	"access-service/internal/config"
	"access-service/internal/repository/model"
	"context"
	"encoding/json"
	"fmt"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"sync"
)

const topic = "access-service"

const (
	memberPermissionsUpdateType = "access.MemberPermissionsUpdate"
	schemeCommissionUpdateType  = "access.SchemeCommissionUpdate"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type kafkaNotifier struct {
	logger *zap.SugaredLogger
	w      messageWriter
}

func NewKafkaNotifier(ctx context.Context, wg *sync.WaitGroup, logger *zap.SugaredLogger, cfg config.KafkaConfig) Notifier {
	w := &kafka.Writer{
		Addr:        kafka.TCP(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		Topic:       topic,
		Async:       true,
		Balancer:    &kafka.LeastBytes{},
		ErrorLogger: zap.NewStdLog(logger.Desugar()),
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		logger.Info("shutting down kafka writer")
		if err := w.Close(); err != nil {
			logger.Errorw("failed to close kafka writer", "error", err)
		}
	}()

	return &kafkaNotifier{
		logger: logger,
		w:      w,
	}
}

func (k *kafkaNotifier) MemberPermissionsUpdate(ctx context.Context, member *model.Member, added []string, removed []string) error {
	msg := &MemberPermissionsUpdateMessage{
		MemberId:    member.Id.String(),
		Role:        member.Role,
		Permissions: member.Permissions,
		Added:       added,
		Removed:     removed,
	}
	if err := k.publishMessage(ctx, member.Id.String(), memberPermissionsUpdateType, msg); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

func (k *kafkaNotifier) SchemeCommissionUpdate(ctx context.Context, scheme *model.Scheme, actorId uuid.UUID) error {
	msg := &SchemeCommissionUpdateMessage{
		SchemeId:   scheme.Id.String(),
		OwnerId:    scheme.OwnerId.String(),
		ActorId:    actorId.String(),
		Commission: scheme.Commission,
	}
	if err := k.publishMessage(ctx, scheme.Id.String(), schemeCommissionUpdateType, msg); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

func (k *kafkaNotifier) publishMessage(ctx context.Context, key string, msgType string, message any) error {
	bytes, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := k.w.WriteMessages(ctx, kafka.Message{
		Key:     []byte(key),
		Value:   bytes,
		Headers: []kafka.Header{{Key: "X-Message-Type", Value: []byte(msgType)}},
	}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
