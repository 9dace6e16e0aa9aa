package auth

import (
	"context"
)

// 操作人角色
const (
	RoleAdmin    = "admin"
	RoleEmployer = "employer"
	RoleSystem   = "system"
)

// Actor 操作人身份
// 由调用方在每次变更操作时提供,身份与角色来自外部用户服务
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// actorContextKey context 键类型,避免与其他包冲突
type actorContextKey struct{}

// WithActor 将操作人写入 context
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext 从 context 中获取操作人
// 未经认证的请求返回零值 Actor
func ActorFromContext(ctx context.Context) Actor {
	if ctx == nil {
		return Actor{}
	}
	if actor, ok := ctx.Value(actorContextKey{}).(Actor); ok {
		return actor
	}
	return Actor{}
}

// SystemActor 系统操作人,用于定时扫描触发的转换
func SystemActor() Actor {
	return Actor{ID: "system", Role: RoleSystem}
}
