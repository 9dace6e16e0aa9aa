package workflow

// Status 职位状态
type Status string

const (
	StatusDraft           Status = "draft"            // 草稿
	StatusPendingApproval Status = "pending_approval" // 待审核
	StatusApproved        Status = "approved"         // 已审核通过,待发布
	StatusActive          Status = "active"           // 已发布
	StatusPaused          Status = "paused"           // 已暂停
	StatusRejected        Status = "rejected"         // 已拒绝
	StatusClosed          Status = "closed"           // 已关闭
	StatusExpired         Status = "expired"          // 已过期
	StatusFilled          Status = "filled"          // 已招满
)

// Event 状态转换事件
type Event string

const (
	EventSubmit     Event = "submit"      // 提交审核
	EventApprove    Event = "approve"     // 审核通过
	EventReject     Event = "reject"      // 审核拒绝
	EventPublish    Event = "publish"     // 发布
	EventPause      Event = "pause"       // 暂停
	EventResume     Event = "resume"      // 恢复
	EventClose      Event = "close"       // 关闭
	EventMarkFilled Event = "mark_filled" // 标记招满
	EventExpire     Event = "expire"      // 过期(系统触发)
)

// SystemActorID 系统操作人 ID,用于定时任务触发的状态转换
const SystemActorID = "system"

// SystemActorRole 系统操作人角色
const SystemActorRole = "system"

// transitions 状态转换表
// 每个事件对应一组合法的 from -> to 转换
var transitions = map[Event]map[Status]Status{
	EventSubmit: {
		StatusDraft: StatusPendingApproval,
	},
	EventApprove: {
		// auto_publish 为 true 时直接进入 active,见 Target
		StatusPendingApproval: StatusApproved,
	},
	EventReject: {
		StatusPendingApproval: StatusRejected,
	},
	EventPublish: {
		StatusApproved: StatusActive,
	},
	EventPause: {
		StatusActive: StatusPaused,
	},
	EventResume: {
		StatusPaused: StatusActive,
	},
	EventClose: {
		StatusActive:   StatusClosed,
		StatusApproved: StatusClosed,
		StatusPaused:   StatusClosed,
	},
	EventMarkFilled: {
		StatusActive:   StatusFilled,
		StatusApproved: StatusFilled,
	},
	EventExpire: {
		StatusActive:   StatusExpired,
		StatusApproved: StatusExpired,
		StatusPaused:   StatusExpired,
	},
}

// terminalStatuses 终态集合,无出边
var terminalStatuses = map[Status]bool{
	StatusRejected: true,
	StatusClosed:   true,
	StatusExpired:  true,
	StatusFilled:   true,
}

// AllStatuses 返回所有合法状态
func AllStatuses() []Status {
	return []Status{
		StatusDraft,
		StatusPendingApproval,
		StatusApproved,
		StatusActive,
		StatusPaused,
		StatusRejected,
		StatusClosed,
		StatusExpired,
		StatusFilled,
	}
}

// AllEvents 返回所有合法事件
func AllEvents() []Event {
	return []Event{
		EventSubmit,
		EventApprove,
		EventReject,
		EventPublish,
		EventPause,
		EventResume,
		EventClose,
		EventMarkFilled,
		EventExpire,
	}
}

// IsValidStatus 判断状态是否合法
func IsValidStatus(s Status) bool {
	for _, status := range AllStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidEvent 判断事件是否合法
func IsValidEvent(e Event) bool {
	_, ok := transitions[e]
	return ok
}

// IsTerminal 判断状态是否为终态
func IsTerminal(s Status) bool {
	return terminalStatuses[s]
}

// IsSystemEvent 判断事件是否由系统触发
func IsSystemEvent(e Event) bool {
	return e == EventExpire
}

// CanTransition 判断从 from 状态能否触发 event 事件
func CanTransition(from Status, event Event) bool {
	targets, ok := transitions[event]
	if !ok {
		return false
	}
	_, ok = targets[from]
	return ok
}

// Target 计算从 from 状态触发 event 事件后的目标状态
// approve 事件在 autoPublish 为 true 时跳过 approved,直接进入 active
func Target(from Status, event Event, autoPublish bool) (Status, error) {
	targets, ok := transitions[event]
	if !ok {
		return "", &InvalidTransitionError{From: from, Event: event}
	}
	to, ok := targets[from]
	if !ok {
		return "", &InvalidTransitionError{From: from, Event: event}
	}
	if event == EventApprove && autoPublish {
		return StatusActive, nil
	}
	return to, nil
}

// ValidateInput 校验事件必填输入
// 人工事件需要操作人 ID,reject 需要非空原因,expire 由系统触发无需操作人
func ValidateInput(event Event, actorID string, reason string) error {
	if !IsValidEvent(event) {
		return &ValidationError{Field: "event", Message: "unknown event: " + string(event)}
	}
	if !IsSystemEvent(event) && actorID == "" {
		return &ValidationError{Field: "actor_id", Message: "actor ID is required"}
	}
	if event == EventReject && reason == "" {
		return &ValidationError{Field: "reason", Message: "rejection reason is required"}
	}
	return nil
}
