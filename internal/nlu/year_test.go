package nlu

import (
	"testing"

	"carsearch/internal/model"
)

func TestParseYear(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantMin   *int
		wantMax   *int
		wantExact *int
	}{
		{
			name:    "two digit range",
			text:    "16~19년식",
			wantMin: intPtr(2016),
			wantMax: intPtr(2019),
		},
		{
			name:    "four digit range",
			text:    "2016-2019년",
			wantMin: intPtr(2016),
			wantMax: intPtr(2019),
		},
		{
			name:      "exact full year",
			text:      "2018년식",
			wantExact: intPtr(2018),
		},
		{
			name:    "full year floor",
			text:    "2018년식 이상",
			wantMin: intPtr(2018),
		},
		{
			name:    "two digit ceiling",
			text:    "18년식 이하",
			wantMax: intPtr(2018),
		},
		{
			name:      "two digit pivots into 1900s",
			text:      "95년식",
			wantExact: intPtr(1995),
		},
		{
			name:    "decade two digit",
			text:    "90년대 차",
			wantMin: intPtr(1990),
			wantMax: intPtr(1999),
		},
		{
			name:    "decade four digit",
			text:    "2010년대",
			wantMin: intPtr(2010),
			wantMax: intPtr(2019),
		},
		{
			name:    "century shorthand",
			text:    "20년대",
			wantMin: intPtr(2000),
			wantMax: intPtr(2009),
		},
		{
			name:    "after",
			text:    "2015년 이후",
			wantMin: intPtr(2015),
		},
		{
			name:    "before",
			text:    "2015년 이전",
			wantMax: intPtr(2015),
		},
		{
			name: "no year",
			text: "디젤 SUV 추천",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var it model.Intent
			parseYear(tt.text, &it)
			checkIntPtr(t, "YearMin", it.YearMin, tt.wantMin)
			checkIntPtr(t, "YearMax", it.YearMax, tt.wantMax)
			checkIntPtr(t, "YearExact", it.YearExact, tt.wantExact)
		})
	}
}

func TestParseYearRelativeKeywords(t *testing.T) {
	var it model.Intent
	parseYear("신형으로 보여줘", &it)
	checkIntPtr(t, "YearMin", it.YearMin, intPtr(nowYear-3))

	it = model.Intent{}
	parseYear("구형이어도 괜찮아", &it)
	checkIntPtr(t, "YearMax", it.YearMax, intPtr(nowYear-8))
}
