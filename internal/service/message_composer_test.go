package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartpulse/cartpulse/internal/domain"
	"github.com/cartpulse/cartpulse/internal/domain/mocks"
	"github.com/cartpulse/cartpulse/pkg/logger"
)

func composeInput(step int) domain.ComposeInput {
	return domain.ComposeInput{
		StoreName:    "Aurora Supply",
		CustomerName: "Dana",
		CartItems: domain.LineItems{
			{Title: "Canvas Tote", Quantity: 1, Price: 42},
		},
		TotalPrice:   42,
		Currency:     "USD",
		StepIndex:    step,
		SequenceType: domain.SequenceTypeFirstTime,
	}
}

func TestMessageComposer_Compose_Generated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	generator := mocks.NewMockTextGenerator(ctrl)
	generator.EXPECT().
		GenerateJSON(gomock.Any(), gomock.Any()).
		Return(`{"subject":"Still thinking it over?","body_html":"<p>Hi Dana</p>","cta_text":"Finish checkout"}`, nil)

	composer := NewMessageComposer(generator, time.Second, logger.NewMockLogger(t))
	msg := composer.Compose(context.Background(), composeInput(0))

	assert.Equal(t, "Still thinking it over?", msg.Subject)
	assert.Equal(t, "<p>Hi Dana</p>", msg.BodyHTML)
	assert.Equal(t, "Finish checkout", msg.CTAText)
	assert.False(t, msg.Fallback)
}

func TestMessageComposer_Compose_StripsCodeFences(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	raw := "```json\n{\"subject\":\"Your cart\",\"body_html\":\"<p>Hello</p>\",\"cta_text\":\"Go\"}\n```"
	generator := mocks.NewMockTextGenerator(ctrl)
	generator.EXPECT().GenerateJSON(gomock.Any(), gomock.Any()).Return(raw, nil)

	composer := NewMessageComposer(generator, time.Second, logger.NewMockLogger(t))
	msg := composer.Compose(context.Background(), composeInput(1))

	assert.Equal(t, "Your cart", msg.Subject)
	assert.False(t, msg.Fallback)
}

func TestMessageComposer_Compose_FallbackOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	generator := mocks.NewMockTextGenerator(ctrl)
	generator.EXPECT().GenerateJSON(gomock.Any(), gomock.Any()).Return("", errors.New("upstream timeout"))

	composer := NewMessageComposer(generator, time.Second, logger.NewMockLogger(t))
	msg := composer.Compose(context.Background(), composeInput(0))

	require.True(t, msg.Fallback)
	assert.NotEmpty(t, msg.Subject)
	assert.Contains(t, msg.BodyHTML, "Dana")
	assert.NotEmpty(t, msg.CTAText)
}

func TestMessageComposer_Compose_FallbackOnMalformedJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	generator := mocks.NewMockTextGenerator(ctrl)
	generator.EXPECT().GenerateJSON(gomock.Any(), gomock.Any()).Return("Sure! Here is the email you asked for.", nil)

	composer := NewMessageComposer(generator, time.Second, logger.NewMockLogger(t))
	msg := composer.Compose(context.Background(), composeInput(0))

	assert.True(t, msg.Fallback)
}

func TestMessageComposer_Compose_FallbackOnMissingFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	generator := mocks.NewMockTextGenerator(ctrl)
	generator.EXPECT().GenerateJSON(gomock.Any(), gomock.Any()).Return(`{"subject":"only a subject"}`, nil)

	composer := NewMessageComposer(generator, time.Second, logger.NewMockLogger(t))
	msg := composer.Compose(context.Background(), composeInput(0))

	assert.True(t, msg.Fallback)
}

func TestMessageComposer_Compose_NilGeneratorUsesFallback(t *testing.T) {
	composer := NewMessageComposer(nil, time.Second, logger.NewMockLogger(t))
	msg := composer.Compose(context.Background(), composeInput(0))

	assert.True(t, msg.Fallback)
}

func TestMessageComposer_Compose_DefaultDisplayName(t *testing.T) {
	composer := NewMessageComposer(nil, time.Second, logger.NewMockLogger(t))

	input := composeInput(0)
	input.CustomerName = "  "
	msg := composer.Compose(context.Background(), input)

	assert.Contains(t, msg.BodyHTML, "Hi there,")
}

func TestMessageComposer_Compose_StepIndexClamps(t *testing.T) {
	composer := NewMessageComposer(nil, time.Second, logger.NewMockLogger(t))

	last := composer.Compose(context.Background(), composeInput(len(stepTones)-1))
	overflow := composer.Compose(context.Background(), composeInput(99))

	assert.Equal(t, last.Subject, overflow.Subject)

	negative := composer.Compose(context.Background(), composeInput(-1))
	first := composer.Compose(context.Background(), composeInput(0))
	assert.Equal(t, first.Subject, negative.Subject)
}

func TestStripCodeFences(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"fenced", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced with language", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, stripCodeFences(tc.input))
		})
	}
}
