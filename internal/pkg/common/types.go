package common

import (
	"fmt"
	"sort"
	"strings"
)

// StorageInfo 各保存方式的說明
type StorageInfo struct {
	RoomTemp     string `json:"roomTemp"`
	Refrigerator string `json:"refrigerator"`
	Freezer      string `json:"freezer"`
}

// ShelfLifeEntry 單一保存方式的保存期限
type ShelfLifeEntry struct {
	Days  int    `json:"days"`
	Label string `json:"label"`
}

// ShelfLifeInfo 各保存方式的保存期限
type ShelfLifeInfo struct {
	RoomTemp     ShelfLifeEntry `json:"roomTemp"`
	Refrigerator ShelfLifeEntry `json:"refrigerator"`
	Freezer      ShelfLifeEntry `json:"freezer"`
}

// SeasonalInfo 當令資訊
type SeasonalInfo struct {
	IsInSeason   bool   `json:"isInSeason"`
	SeasonMonths []int  `json:"seasonMonths"`
	SeasonLabel  string `json:"seasonLabel"`
	Description  string `json:"description"`
}

// IngredientRecord 已解析並持久化的食材資料，CanonicalName 為唯一鍵
type IngredientRecord struct {
	CanonicalName string        `json:"name"`
	Storage       StorageInfo   `json:"storage"`
	ShelfLife     ShelfLifeInfo `json:"shelfLife"`
	Seasonal      SeasonalInfo  `json:"seasonal"`
}

// Validate 檢查紀錄是否完整，並將月份整理為排序後的集合
func (r *IngredientRecord) Validate() error {
	if strings.TrimSpace(r.CanonicalName) == "" {
		return fmt.Errorf("canonical name is empty")
	}
	for _, e := range []ShelfLifeEntry{r.ShelfLife.RoomTemp, r.ShelfLife.Refrigerator, r.ShelfLife.Freezer} {
		if e.Days < 0 {
			return fmt.Errorf("negative shelf life days: %d", e.Days)
		}
	}
	months, err := normalizeMonths(r.Seasonal.SeasonMonths)
	if err != nil {
		return err
	}
	r.Seasonal.SeasonMonths = months
	return nil
}

func normalizeMonths(months []int) ([]int, error) {
	seen := make(map[int]bool, len(months))
	out := make([]int, 0, len(months))
	for _, m := range months {
		if m < 1 || m > 12 {
			return nil, fmt.Errorf("season month out of range: %d", m)
		}
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	sort.Ints(out)
	return out, nil
}

// IngredientJudgment 生成器對查詢名稱的判斷結果
type IngredientJudgment struct {
	IsValid       bool          `json:"isValid"`
	CorrectedName string        `json:"correctedName"`
	Suggestion    string        `json:"suggestion"`
	Storage       StorageInfo   `json:"storage"`
	ShelfLife     ShelfLifeInfo `json:"shelfLife"`
	Seasonal      SeasonalInfo  `json:"seasonal"`
}

// Record 以指定的鍵轉為可持久化的紀錄
func (j *IngredientJudgment) Record(key string) IngredientRecord {
	return IngredientRecord{
		CanonicalName: key,
		Storage:       j.Storage,
		ShelfLife:     j.ShelfLife,
		Seasonal:      j.Seasonal,
	}
}

// ResolutionOutcome 單次解析的結果，只用於回應
type ResolutionOutcome struct {
	IsValid       bool           `json:"isValid"`
	CorrectedName string         `json:"correctedName,omitempty"`
	Suggestion    *string        `json:"suggestion,omitempty"`
	Storage       *StorageInfo   `json:"storage,omitempty"`
	ShelfLife     *ShelfLifeInfo `json:"shelfLife,omitempty"`
	Seasonal      *SeasonalInfo  `json:"seasonal,omitempty"`

	// Cached 為 true 表示結果取自儲存層
	Cached bool `json:"-"`
}

// OutcomeFromRecord 由儲存的紀錄建立有效結果
func OutcomeFromRecord(rec IngredientRecord, cached bool) *ResolutionOutcome {
	return &ResolutionOutcome{
		IsValid:       true,
		CorrectedName: rec.CanonicalName,
		Storage:       &rec.Storage,
		ShelfLife:     &rec.ShelfLife,
		Seasonal:      &rec.Seasonal,
		Cached:        cached,
	}
}

// OutcomeFromJudgment 由生成器結果建立回應，無效判斷只帶 suggestion
func OutcomeFromJudgment(j *IngredientJudgment) *ResolutionOutcome {
	if !j.IsValid {
		suggestion := j.Suggestion
		return &ResolutionOutcome{IsValid: false, Suggestion: &suggestion}
	}
	return &ResolutionOutcome{
		IsValid:       true,
		CorrectedName: j.CorrectedName,
		Storage:       &j.Storage,
		ShelfLife:     &j.ShelfLife,
		Seasonal:      &j.Seasonal,
	}
}

// SearchResponse 搜尋 API 的回應外層
type SearchResponse struct {
	Success bool               `json:"success"`
	Data    *ResolutionOutcome `json:"data,omitempty"`
	Query   string             `json:"query,omitempty"`
	Cached  *bool              `json:"cached,omitempty"`
	Error   string             `json:"error,omitempty"`
}
