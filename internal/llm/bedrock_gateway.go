package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

const ProviderBedrock = "bedrock"

type bedrockConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockGateway calls a Bedrock model through the Converse API.
type BedrockGateway struct {
	api     bedrockConverseAPI
	modelID string
}

func NewBedrockGateway(api bedrockConverseAPI, modelID string) (*BedrockGateway, error) {
	if api == nil {
		panic("llm: bedrock converse client cannot be nil")
	}
	if strings.TrimSpace(modelID) == "" {
		return nil, &ConfigError{Setting: "BEDROCK_MODEL_ID", Err: ErrMissingModel}
	}
	return &BedrockGateway{api: api, modelID: strings.TrimSpace(modelID)}, nil
}

// Call implements Gateway. System messages become Converse system blocks.
func (g *BedrockGateway) Call(ctx context.Context, messages []Message, opts Options) (Result, error) {
	var systemBlocks []brtypes.SystemContentBlock
	converse := make([]brtypes.Message, 0, len(messages))
	for _, msg := range messages {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		switch msg.Role {
		case RoleSystem:
			systemBlocks = append(systemBlocks, &brtypes.SystemContentBlockMemberText{Value: content})
		case RoleUser:
			converse = append(converse, brtypes.Message{
				Role:    brtypes.ConversationRoleUser,
				Content: []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: content}},
			})
		case RoleAssistant:
			converse = append(converse, brtypes.Message{
				Role:    brtypes.ConversationRoleAssistant,
				Content: []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: content}},
			})
		default:
			return Result{}, &GatewayError{Provider: ProviderBedrock, Err: fmt.Errorf("unsupported role %q", msg.Role)}
		}
	}

	maxTokens, temperature, topP := opts.Resolve()
	out, err := g.api.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId:  aws.String(g.modelID),
		System:   systemBlocks,
		Messages: converse,
		InferenceConfig: &brtypes.InferenceConfiguration{
			MaxTokens:   aws.Int32(int32(maxTokens)),
			Temperature: aws.Float32(float32(temperature)),
			TopP:        aws.Float32(float32(topP)),
		},
	})
	if err != nil {
		return Result{}, &GatewayError{Provider: ProviderBedrock, Err: err}
	}

	text, err := bedrockOutputText(out)
	if err != nil {
		return Result{}, &GatewayError{Provider: ProviderBedrock, Err: err}
	}
	res := Result{Content: text}
	if out.StopReason != "" {
		reason := string(out.StopReason)
		res.FinishReason = &reason
	}
	if out.Usage != nil {
		res.Usage = &Usage{
			PromptTokens:     int(int32OrZero(out.Usage.InputTokens)),
			CompletionTokens: int(int32OrZero(out.Usage.OutputTokens)),
			TotalTokens:      int(int32OrZero(out.Usage.TotalTokens)),
		}
	}
	return res, nil
}

func bedrockOutputText(out *bedrockruntime.ConverseOutput) (string, error) {
	if out == nil {
		return "", errors.New("bedrock response is nil")
	}
	msgOut, ok := out.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok {
		return "", errors.New("bedrock response did not include a message output")
	}
	var builder strings.Builder
	for _, block := range msgOut.Value.Content {
		if textBlock, ok := block.(*brtypes.ContentBlockMemberText); ok {
			builder.WriteString(textBlock.Value)
		}
	}
	return builder.String(), nil
}

func int32OrZero(v *int32) int32 {
	if v == nil {
		return 0
	}
	return *v
}
