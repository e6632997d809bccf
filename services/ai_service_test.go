package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sxinguo/Review-tool/models"

	"github.com/stretchr/testify/assert"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	response string
	err      error
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestFormatItemsByDate(t *testing.T) {
	items := []models.ReviewItem{
		{Content: "【基础】洗漱", Date: "2024-01-02"},
		{Content: "【创造】画画", Date: "2024-01-01"},
		{Content: "随便写的", Date: "2024-01-01"},
	}

	out := FormatItemsByDate(items)

	// 日期升序，带本地化星期，组内保持给定顺序
	assert.Contains(t, out, "### 2024-01-01 周一")
	assert.Contains(t, out, "### 2024-01-02 周二")
	assert.Less(t, strings.Index(out, "2024-01-01"), strings.Index(out, "2024-01-02"))
	assert.Less(t, strings.Index(out, "【创造】画画"), strings.Index(out, "随便写的"))
	assert.Contains(t, out, "1. 【创造】画画")
	assert.Contains(t, out, "2. 随便写的")
}

func TestFormatItemsByDateEmpty(t *testing.T) {
	assert.Equal(t, "暂无复盘记录", FormatItemsByDate(nil))
}

func TestFallbackReportDeterministic(t *testing.T) {
	a := FallbackReport("week", "2024-01-01", "2024-01-07", 12)
	b := FallbackReport("week", "2024-01-01", "2024-01-07", 12)
	assert.Equal(t, a, b)
	assert.Contains(t, a, "周复盘报告")
	assert.Contains(t, a, "2024-01-01 至 2024-01-07")
	assert.Contains(t, a, "12")

	m := FallbackReport("month", "2024-01-01", "2024-01-31", 3)
	assert.Contains(t, m, "月复盘报告")
}

func TestGenerateWithoutClientFallsBack(t *testing.T) {
	svc := NewReportService(nil)
	out := svc.Generate(context.Background(), "week", "2024-01-01", "2024-01-07", nil)
	assert.NotEmpty(t, out)
	assert.Contains(t, out, "周复盘报告")
}

func TestGenerateUpstreamErrorFallsBack(t *testing.T) {
	svc := &ReportService{model: &fakeModel{err: errors.New("api unreachable")}}
	items := []models.ReviewItem{{Content: "【基础】洗漱", Date: "2024-01-01"}}

	out := svc.Generate(context.Background(), "week", "2024-01-01", "2024-01-07", items)
	// 上游失败不抛错，返回可渲染的降级文本
	assert.NotEmpty(t, out)
	assert.Equal(t, FallbackReport("week", "2024-01-01", "2024-01-07", 1), out)
}

func TestGenerateReturnsModelContent(t *testing.T) {
	svc := &ReportService{model: &fakeModel{response: "# 本周总结\n\n完成得不错。"}}
	out := svc.Generate(context.Background(), "week", "2024-01-01", "2024-01-07", nil)
	assert.Equal(t, "# 本周总结\n\n完成得不错。", out)
}

func TestGenerateEmptyChoiceFallsBack(t *testing.T) {
	svc := &ReportService{model: &fakeModel{response: ""}}
	out := svc.Generate(context.Background(), "month", "2024-01-01", "2024-01-31", nil)
	assert.Equal(t, FallbackReport("month", "2024-01-01", "2024-01-31", 0), out)
}

func TestBuildPrompt(t *testing.T) {
	items := []models.ReviewItem{{Content: "【基础】洗漱", Date: "2024-01-01"}}
	prompt := BuildPrompt("week", "2024-01-01", "2024-01-07", items)
	assert.Contains(t, prompt, "2024-01-01 至 2024-01-07")
	assert.Contains(t, prompt, "共 1 条")
	assert.Contains(t, prompt, "【基础】洗漱")
}
