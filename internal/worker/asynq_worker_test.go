package worker

import (
	"context"
	"testing"

	"github.com/mesa-next/internal/provider"
	"github.com/mesa-next/internal/queue"

	"github.com/hibiken/asynq"
)

func TestHandleOrderStatusEmailInvalidPayload(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})

	task := asynq.NewTask(queue.TaskOrderStatusEmail, []byte("not-json"))
	if err := consumer.handleOrderStatusEmail(context.Background(), task); err == nil {
		t.Fatalf("expected error for malformed payload")
	}

	task, err := queue.NewOrderStatusEmailTask(queue.OrderStatusEmailPayload{OrderID: 0})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderStatusEmail(context.Background(), task); err != nil {
		t.Fatalf("zero order id should be skipped, got %v", err)
	}
}

func TestHandleOrderTimeoutCancelInvalidPayload(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})

	task := asynq.NewTask(queue.TaskOrderTimeoutCancel, []byte("{"))
	if err := consumer.handleOrderTimeoutCancel(context.Background(), task); err == nil {
		t.Fatalf("expected error for malformed payload")
	}

	task, err := queue.NewOrderTimeoutCancelTask(queue.OrderTimeoutCancelPayload{OrderID: 0})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderTimeoutCancel(context.Background(), task); err != nil {
		t.Fatalf("zero order id should be skipped, got %v", err)
	}

	// OrderService 未注入时直接跳过，不应重试
	task, err = queue.NewOrderTimeoutCancelTask(queue.OrderTimeoutCancelPayload{OrderID: 42})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderTimeoutCancel(context.Background(), task); err != nil {
		t.Fatalf("missing order service should be skipped, got %v", err)
	}
}

func TestHandleTasksNilGuards(t *testing.T) {
	var consumer *Consumer
	if err := consumer.handleOrderStatusEmail(context.Background(), nil); err != nil {
		t.Fatalf("nil consumer should be skipped, got %v", err)
	}

	consumer = NewConsumer(&provider.Container{})
	if err := consumer.handleOrderTimeoutCancel(context.Background(), nil); err != nil {
		t.Fatalf("nil task should be skipped, got %v", err)
	}
}
