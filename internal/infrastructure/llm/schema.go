package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"NewsRiskScanner/internal/config"
	"NewsRiskScanner/internal/domain"
)

// Schema describes the JSON object the scoring model is asked to produce.
type Schema struct {
	Name           string
	SystemPrompt   string
	UserTemplate   string
	RequiredFields []string
	ScoreMin       int
	ScoreMax       int
}

const financialPrompt = `Bạn là một chuyên gia AI về Quản trị Rủi ro Tài chính (Financial Risk Management).
Nhiệm vụ: Phân tích văn bản tin tức được cung cấp và trích xuất các tín hiệu rủi ro.

YÊU CẦU OUTPUT:
Chỉ trả về một chuỗi JSON hợp lệ (không markdown, không giải thích thêm) với cấu trúc sau:
{
    "risk_score": (số nguyên từ 1-10, 10 là cực kỳ nguy hiểm),
    "risk_category": (string, ví dụ: "Thanh khoản", "Pháp lý", "Uy tín", "Thị trường"),
    "sentiment": (string, "Negative" | "Neutral" | "Positive"),
    "key_entities": (list các tổ chức/công ty bị ảnh hưởng),
    "publication_date": (string, trích xuất ngày từ tin tức theo dạng "YYYY-MM-DD". Nếu không tìm thấy, trả về null),
    "keywords": (list 5-7 keywords quan trọng nhất, không trùng lặp),
    "reasoning": (tóm tắt ngắn gọn tại sao lại chấm điểm như vậy, dưới 30 từ)
}`

const sentimentPrompt = `Bạn là một Chuyên gia Phân tích Rủi ro Tài chính (Financial Risk Analyst).
Nhiệm vụ: Phân tích tin tức tiếng Việt về tổ chức tài chính được nhắc tới.

Hãy trả về kết quả dưới dạng JSON (không thêm lời dẫn) với các trường sau:
1. "sentiment": Chỉ chọn một trong 3 nhãn: "Negative", "Neutral", "Positive".
2. "risk_score": Số nguyên từ 0 (An toàn) đến 10 (Rủi ro sụp đổ/Hoảng loạn).
3. "key_factors": Trích xuất 2-3 từ khóa quan trọng nhất trong câu (Tiếng Việt).
4. "reasoning": Giải thích ngắn gọn tại sao chấm điểm này (bằng Tiếng Việt).`

var schemas = map[string]Schema{
	"financial": {
		Name:         "financial",
		SystemPrompt: financialPrompt,
		UserTemplate: "Hãy phân tích tin tức sau:\n%s",
		RequiredFields: []string{
			"risk_score", "risk_category", "sentiment", "key_entities",
			"publication_date", "keywords", "reasoning",
		},
		ScoreMin: 1,
		ScoreMax: 10,
	},
	"sentiment": {
		Name:           "sentiment",
		SystemPrompt:   sentimentPrompt,
		UserTemplate:   "Phân tích tin này: '%s'",
		RequiredFields: []string{"sentiment", "risk_score", "key_factors", "reasoning"},
		ScoreMin:       0,
		ScoreMax:       10,
	},
}

// SchemaFromConfig picks the named preset and applies prompt and field overrides.
func SchemaFromConfig(cfg config.ScoringConfig) (Schema, error) {
	name := cfg.Schema
	if name == "" {
		name = "financial"
	}
	preset, ok := schemas[name]
	if !ok {
		return Schema{}, fmt.Errorf("%w: unknown scoring schema %q", domain.ErrConfig, name)
	}
	if strings.TrimSpace(cfg.SystemPrompt) != "" {
		preset.SystemPrompt = cfg.SystemPrompt
	}
	if len(cfg.RequiredFields) > 0 {
		preset.RequiredFields = withMandatoryFields(cfg.RequiredFields)
	}
	return preset, nil
}

// mandatoryFields are required by every schema; overrides cannot drop them.
var mandatoryFields = []string{"risk_score", "sentiment"}

func withMandatoryFields(fields []string) []string {
	out := append([]string(nil), fields...)
	for _, name := range mandatoryFields {
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

// UserMessage renders the article text into the user turn.
func (s Schema) UserMessage(text string) string {
	if s.UserTemplate == "" {
		return text
	}
	return fmt.Sprintf(s.UserTemplate, text)
}

var knownFields = map[string]struct{}{
	"risk_score": {}, "sentiment": {}, "risk_category": {}, "key_factors": {},
	"key_entities": {}, "keywords": {}, "reasoning": {}, "publication_date": {},
}

// ParseAssessment validates an untrusted model reply against schema.
func ParseAssessment(raw string, schema Schema) (domain.RiskAssessment, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripFence(raw)), &fields); err != nil {
		return domain.RiskAssessment{}, fmt.Errorf("%w: not a JSON object: %v", domain.ErrSchema, err)
	}
	if fields == nil {
		return domain.RiskAssessment{}, fmt.Errorf("%w: null reply", domain.ErrSchema)
	}

	var missing []string
	for _, name := range schema.RequiredFields {
		if _, ok := fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return domain.RiskAssessment{}, fmt.Errorf("%w: missing fields %s", domain.ErrSchema, strings.Join(missing, ", "))
	}

	var out domain.RiskAssessment

	if value, ok := fields["risk_score"]; ok {
		score, err := parseScore(value)
		if err != nil {
			return domain.RiskAssessment{}, err
		}
		if score < schema.ScoreMin || score > schema.ScoreMax {
			return domain.RiskAssessment{}, fmt.Errorf("%w: risk_score %d outside %d..%d", domain.ErrSchema, score, schema.ScoreMin, schema.ScoreMax)
		}
		out.RiskScore = score
	}

	if value, ok := fields["sentiment"]; ok {
		var label string
		if err := json.Unmarshal(value, &label); err != nil {
			return domain.RiskAssessment{}, fmt.Errorf("%w: sentiment is not a string", domain.ErrSchema)
		}
		sentiment, ok := domain.ParseSentiment(label)
		if !ok {
			return domain.RiskAssessment{}, fmt.Errorf("%w: unknown sentiment %q", domain.ErrSchema, label)
		}
		out.Sentiment = sentiment
	}

	textFields := []struct {
		name string
		dst  *string
	}{
		{"risk_category", &out.RiskCategory},
		{"reasoning", &out.Reasoning},
	}
	for _, f := range textFields {
		if err := decodeOptional(fields, f.name, f.dst); err != nil {
			return domain.RiskAssessment{}, err
		}
	}

	listFields := []struct {
		name string
		dst  *[]string
	}{
		{"key_factors", &out.KeyFactors},
		{"key_entities", &out.KeyEntities},
		{"keywords", &out.Keywords},
	}
	for _, f := range listFields {
		if err := decodeOptional(fields, f.name, f.dst); err != nil {
			return domain.RiskAssessment{}, err
		}
	}

	out.PublicationDate = parsePublicationDate(fields["publication_date"])

	for name, value := range fields {
		if _, ok := knownFields[name]; ok {
			continue
		}
		if out.Extra == nil {
			out.Extra = map[string]json.RawMessage{}
		}
		out.Extra[name] = value
	}

	return out, nil
}

func parseScore(value json.RawMessage) (int, error) {
	if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		return 0, fmt.Errorf("%w: risk_score is null", domain.ErrSchema)
	}
	var score float64
	if err := json.Unmarshal(value, &score); err != nil {
		return 0, fmt.Errorf("%w: risk_score is not a number", domain.ErrSchema)
	}
	if score != math.Trunc(score) {
		return 0, fmt.Errorf("%w: risk_score %v is not an integer", domain.ErrSchema, score)
	}
	return int(score), nil
}

// decodeOptional fills dst when the field is present and not null.
func decodeOptional[T any](fields map[string]json.RawMessage, name string, dst *T) error {
	value, ok := fields[name]
	if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(value, dst); err != nil {
		return fmt.Errorf("%w: field %s has the wrong type", domain.ErrSchema, name)
	}
	return nil
}

// parsePublicationDate keeps only well-formed YYYY-MM-DD dates; anything else becomes nil.
func parsePublicationDate(value json.RawMessage) *string {
	if value == nil {
		return nil
	}
	var date string
	if err := json.Unmarshal(value, &date); err != nil {
		return nil
	}
	date = strings.TrimSpace(date)
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil
	}
	return &date
}

// stripFence removes a ```json ... ``` wrapper some models add despite JSON mode.
func stripFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimPrefix(raw, "json")
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}
