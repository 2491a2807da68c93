package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const requestDataKey contextKey = "voltcert.requestdata"

// RequestData carries the authenticated tenant/operator identity for one request.
// Every repo query is filtered by TenantID; there is no cross-tenant fallback.
type RequestData struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Email    string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	rd, _ := ctx.Value(requestDataKey).(*RequestData)
	return rd
}
