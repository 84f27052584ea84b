package valuation

// Checklist returns rule-based maintenance suggestions for a car of the given
// year and mileage. Thresholds follow common Korean service intervals; an
// unknown year is treated as old enough to warrant the aging checks.
func Checklist(year, km *int) []string {
	var list []string
	k := 0
	if km != nil {
		k = *km
	}
	if k >= 80000 {
		list = append(list, "타이밍벨트/워터펌프 점검(차종별 해당 시)")
	}
	if k >= 60000 {
		list = append(list, "브레이크 패드/디스크, 점화플러그/코일 점검")
	}
	if k >= 40000 {
		list = append(list, "변속기 오일, 브레이크 오일, 냉각수 상태 점검")
	}
	if k >= 20000 {
		list = append(list, "에어컨 필터, 엔진오일/오일필터 교환 주기 확인")
	}
	if year == nil || *year <= 2015 {
		list = append(list, "고무부품(호스/벨트)/부싱/엔진마운트 노화 점검")
	}
	if year != nil && *year <= 2010 {
		list = append(list, "서스펜션 누유/하체 부식, 연료라인 점검")
	}
	if len(list) == 0 {
		list = append(list, "기본 안전 점검(타이어/등화류/배터리/와이퍼)")
	}
	return list
}
