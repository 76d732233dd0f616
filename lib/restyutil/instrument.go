package restyutil

import (
	"context"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type InstrumentOutput interface {
	Write(id string, contents string)
}

type instrumentCtx struct {
	output    InstrumentOutput
	idcounter *uint64
	redact    []string
}

// InstrumentClient logs every request made by `client` at debug level.
// `output` can be nil, if it isn't, the full request and response of each
// message is written to it under the message id. Form fields named in
// `redact` are masked in the written request bodies.
func InstrumentClient(client *resty.Client, output InstrumentOutput, redact ...string) {
	var idcounter uint64
	i := instrumentCtx{output: output, idcounter: &idcounter, redact: redact}
	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

type messageIdKeyType int

var messageIdKey messageIdKeyType

func (i instrumentCtx) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	ctx := req.Context()

	messageId := strconv.FormatUint(atomic.AddUint64(i.idcounter, 1), 10)
	slog.DebugContext(
		ctx, "start request",
		"method", req.Method,
		"url", req.URL,
		"message_id", messageId,
	)

	req.SetContext(context.WithValue(ctx, messageIdKey, messageId))
	return nil
}

func (i instrumentCtx) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	ctx := res.Request.Context()
	messageId, _ := ctx.Value(messageIdKey).(string)

	slog.DebugContext(
		ctx, "request succeeded",
		"method", res.Request.Method,
		"url", res.Request.URL,
		"status", res.StatusCode(),
		"message_id", messageId,
	)
	if i.output != nil && messageId != "" {
		i.output.Write(messageId, formatHttpMessage(res, i.redact))
	}
	return nil
}

func (i instrumentCtx) onError(req *resty.Request, err error) {
	messageId, _ := req.Context().Value(messageIdKey).(string)
	slog.ErrorContext(
		req.Context(), "request failed",
		"method", req.Method,
		"url", req.URL,
		"err", err,
		"message_id", messageId,
	)
}
