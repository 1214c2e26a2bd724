package lambdafn

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"genomics-annotation-service/internal/domain/ports/adapter"
)

// Invoker calls the restore function deployed as a Lambda. The invocation
// is synchronous: the thaw coordinator needs the outcome to decide whether
// to acknowledge the completion message.
type Invoker struct {
	client   *lambda.Client
	function string
}

func New(cfg aws.Config, functionName string) *Invoker {
	return &Invoker{client: lambda.NewFromConfig(cfg), function: functionName}
}

func (i *Invoker) Invoke(ctx context.Context, req adapter.RestoreRequest) (*adapter.RestoreResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal restore request: %w", err)
	}

	out, err := i.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(i.function),
		InvocationType: types.InvocationTypeRequestResponse,
		Payload:        payload,
	})
	if err != nil {
		return nil, fmt.Errorf("invoke %s: %w", i.function, err)
	}
	if out.FunctionError != nil {
		return nil, fmt.Errorf("restore function error: %s: %s", aws.ToString(out.FunctionError), string(out.Payload))
	}

	var res adapter.RestoreResult
	if err := json.Unmarshal(out.Payload, &res); err != nil {
		return nil, fmt.Errorf("decode restore result: %w", err)
	}
	return &res, nil
}
