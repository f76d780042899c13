package ai

import (
	"errors"
	"fmt"
	"strings"

	"ingredient-guide/internal/pkg/common"
)

var (
	// ErrEmptyResponse 模型沒有返回內容
	ErrEmptyResponse = errors.New("empty generator response")
	// ErrMalformedResponse 模型回應無法解析
	ErrMalformedResponse = errors.New("malformed generator response")
)

// judgmentPayload 以指標區分欄位缺漏與零值
type judgmentPayload struct {
	IsValid       bool                  `json:"isValid"`
	CorrectedName string                `json:"correctedName"`
	Suggestion    string                `json:"suggestion"`
	Storage       *common.StorageInfo   `json:"storage"`
	ShelfLife     *common.ShelfLifeInfo `json:"shelfLife"`
	Seasonal      *common.SeasonalInfo  `json:"seasonal"`
}

// ParseJudgment 解析模型輸出的 JSON 判斷
func ParseJudgment(text string) (*common.IngredientJudgment, error) {
	content := common.StripCodeFence(text)
	if content == "" {
		return nil, ErrEmptyResponse
	}
	content = common.ExtractJSONObject(content)

	var payload judgmentPayload
	if err := common.ParseJSON(content, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	judgment := common.IngredientJudgment{
		IsValid:       payload.IsValid,
		CorrectedName: strings.TrimSpace(payload.CorrectedName),
		Suggestion:    strings.TrimSpace(payload.Suggestion),
	}
	if !judgment.IsValid {
		return &judgment, nil
	}

	if judgment.CorrectedName == "" {
		return nil, fmt.Errorf("%w: valid judgment without corrected name", ErrMalformedResponse)
	}
	if err := checkComplete(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	judgment.Storage = *payload.Storage
	judgment.ShelfLife = *payload.ShelfLife
	judgment.Seasonal = *payload.Seasonal
	return &judgment, nil
}

// checkComplete 有效判斷的三個區段必須同時完整
func checkComplete(p judgmentPayload) error {
	if p.Storage == nil || p.ShelfLife == nil || p.Seasonal == nil {
		return errors.New("missing storage, shelfLife or seasonal")
	}
	s := p.Storage
	if blank(s.RoomTemp) || blank(s.Refrigerator) || blank(s.Freezer) {
		return errors.New("incomplete storage")
	}
	sl := p.ShelfLife
	if blank(sl.RoomTemp.Label) || blank(sl.Refrigerator.Label) || blank(sl.Freezer.Label) {
		return errors.New("incomplete shelfLife")
	}
	if blank(p.Seasonal.SeasonLabel) {
		return errors.New("incomplete seasonal")
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
