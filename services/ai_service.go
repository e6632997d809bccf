package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sxinguo/Review-tool/config"
	"github.com/sxinguo/Review-tool/models"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// ReportService 复盘报告生成，外部API失败时降级为固定模板，从不向上抛错
type ReportService struct {
	model llms.Model
}

// NewReportService client为nil时（未配置密钥）始终走降级模板
func NewReportService(client *DeepseekClient) *ReportService {
	svc := &ReportService{}
	if client != nil {
		svc.model = client.DsChat
	}
	return svc
}

var weekdayNames = []string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

func periodName(periodType string) string {
	if periodType == "month" {
		return "月"
	}
	return "周"
}

// FormatItemsByDate 按日期分组渲染记录，日期升序，组内保持原有顺序
func FormatItemsByDate(items []models.ReviewItem) string {
	if len(items) == 0 {
		return "暂无复盘记录"
	}

	grouped := make(map[string][]models.ReviewItem)
	var dates []string
	for _, item := range items {
		if _, ok := grouped[item.Date]; !ok {
			dates = append(dates, item.Date)
		}
		grouped[item.Date] = append(grouped[item.Date], item)
	}
	sort.Strings(dates)

	var sb strings.Builder
	for _, date := range dates {
		heading := date
		if t, err := time.Parse("2006-01-02", date); err == nil {
			heading = fmt.Sprintf("%s %s", date, weekdayNames[t.Weekday()])
		}
		sb.WriteString(fmt.Sprintf("### %s\n", heading))
		for i, item := range grouped[date] {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, item.Content))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

const reportSystemPrompt = `你是一位专业而理性的复盘总结助手。崇尚科学，理性，务实。

请根据我提供的分类复盘记录（【基础】【蓄能】【创造】，无标签的归为其他），生成一份Markdown格式的总结报告，要求：
1.周复盘以"本周"为开头，月复盘以"本月"为开头
2.用第一人称总结
3.先回顾各分类的记录情况，再分析时间投入的分布
4.对完成情况进行总结，并给出下一周期的改进建议
5.没有记录的分类不要编造内容
6.总长度不能超过1000字
7.不要太啰嗦，要精炼`

// BuildPrompt 组装两段式提示词：周期元信息+按日期渲染的记录
func BuildPrompt(periodType, startDate, endDate string, items []models.ReviewItem) string {
	return fmt.Sprintf("这是我 %s 至 %s 的%s复盘记录，共 %d 条：\n\n%s",
		startDate, endDate, periodName(periodType), len(items), FormatItemsByDate(items))
}

// FallbackReport 确定性降级报告，只由周期类型、时间范围和记录条数决定
func FallbackReport(periodType, startDate, endDate string, itemCount int) string {
	name := periodName(periodType)
	return fmt.Sprintf(`# %s复盘报告

**周期**：%s 至 %s
**记录条数**：%d

AI 总结暂时不可用。本%s共记录 %d 条复盘，请继续保持每日记录的习惯，稍后可重新生成完整报告。`,
		name, startDate, endDate, itemCount, name, itemCount)
}

// Generate 生成报告，任何外部失败都返回降级文本，保证调用方总能拿到可渲染内容
func (s *ReportService) Generate(ctx context.Context, periodType, startDate, endDate string, items []models.ReviewItem) string {
	if s.model == nil {
		return FallbackReport(periodType, startDate, endDate, len(items))
	}

	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(reportSystemPrompt)},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(BuildPrompt(periodType, startDate, endDate, items))},
		},
	}

	response, err := s.model.GenerateContent(ctx, messages,
		llms.WithTemperature(0.7),
		llms.WithMaxTokens(2048),
	)
	if err != nil {
		config.Logger.Errorw("生成复盘报告失败，走降级模板",
			"error", err,
			"periodType", periodType,
			"startDate", startDate,
			"endDate", endDate,
		)
		return FallbackReport(periodType, startDate, endDate, len(items))
	}
	if len(response.Choices) == 0 || response.Choices[0].Content == "" {
		config.Logger.Errorw("复盘报告返回为空，走降级模板", "periodType", periodType)
		return FallbackReport(periodType, startDate, endDate, len(items))
	}
	return response.Choices[0].Content
}
