package service

import (
	"strings"

	"github.com/mesa-next/internal/constants"
)

// 订单状态流转表：pending -> confirmed -> preparing -> ready -> completed，
// 完成前任一状态可取消。
var orderStatusTransitions = map[string][]string{
	constants.OrderStatusPending:   {constants.OrderStatusConfirmed, constants.OrderStatusCanceled},
	constants.OrderStatusConfirmed: {constants.OrderStatusPreparing, constants.OrderStatusCanceled},
	constants.OrderStatusPreparing: {constants.OrderStatusReady, constants.OrderStatusCanceled},
	constants.OrderStatusReady:     {constants.OrderStatusCompleted, constants.OrderStatusCanceled},
	constants.OrderStatusCompleted: {},
	constants.OrderStatusCanceled:  {},
}

// CanTransitionOrderStatus 判断订单状态能否从 from 流转到 to
func CanTransitionOrderStatus(from, to string) bool {
	from = strings.ToLower(strings.TrimSpace(from))
	to = strings.ToLower(strings.TrimSpace(to))
	for _, allowed := range orderStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminalOrderStatus 判断是否终态
func IsTerminalOrderStatus(status string) bool {
	status = strings.ToLower(strings.TrimSpace(status))
	next, ok := orderStatusTransitions[status]
	return ok && len(next) == 0
}

// IsCancelableOrderStatus 判断当前状态下顾客能否取消
func IsCancelableOrderStatus(status string) bool {
	return CanTransitionOrderStatus(status, constants.OrderStatusCanceled)
}
