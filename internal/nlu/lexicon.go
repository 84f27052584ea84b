package nlu

import "regexp"

// Lexicon tables for the rule-based intent extractor. Categorical tables are
// ordered slices rather than maps: iteration order decides first-match-wins
// tie-breaks, so the order must be explicit and stable.

var (
	reApprox = regexp.MustCompile(`내외|전후|정도|쯤|가량|안팎|근처|언저리|대략|약|짜리|한\s*[0-9]`)
	reLE     = regexp.MustCompile(`이하|이내|미만|최대|까지`)
	reGE     = regexp.MustCompile(`이상|초과|부터`)

	rePriceCtx = regexp.MustCompile(`원|만원|억|예산|가격|금액|차값|가격대`)
	reKmCtx    = regexp.MustCompile(`(?i)km|키로|킬로|주행|주행거리`)

	// 짜리 implies the user is pointing at a specific figure, so the
	// tolerance band around it is tighter than the generic approx markers.
	reTight = regexp.MustCompile(`짜리`)
)

type keywordEntry struct {
	key string
	re  *regexp.Regexp
}

var fuelTable = []keywordEntry{
	{"diesel", regexp.MustCompile(`(?i)디젤|diesel`)},
	{"gasoline", regexp.MustCompile(`(?i)가솔린|휘발유|gasoline|petrol`)},
	{"hybrid", regexp.MustCompile(`(?i)하이브리드|hybrid`)},
	{"ev", regexp.MustCompile(`(?i)전기|전동|\bev\b|electric`)},
	{"lpg", regexp.MustCompile(`(?i)lpg|엘피지`)},
}

var bodyTable = []keywordEntry{
	{"suv", regexp.MustCompile(`(?i)suv|스유브|스포티지|투싼`)},
	{"sedan", regexp.MustCompile(`(?i)세단|sedan`)},
	{"hatch", regexp.MustCompile(`(?i)해치백|해치|hatch`)},
	{"van", regexp.MustCompile(`(?i)밴|승합|van`)},
	{"truck", regexp.MustCompile(`(?i)트럭|truck`)},
	{"wagon", regexp.MustCompile(`(?i)왜건|wagon`)},
	{"coupe", regexp.MustCompile(`(?i)쿠페|coupe`)},
}

var segmentTable = []keywordEntry{
	{"midsize", regexp.MustCompile(`(?i)중형|midsize|d-?seg`)},
	{"compact", regexp.MustCompile(`(?i)준중형|compact|c-?seg`)},
	{"fullsize", regexp.MustCompile(`(?i)대형|full\s*size|e-?seg|f-?seg`)},
	{"subcompact", regexp.MustCompile(`(?i)소형|sub\s*compact|b-?seg`)},
	{"mini", regexp.MustCompile(`(?i)경차|a-?seg`)},
}

var transmissionTable = []keywordEntry{
	{"auto", regexp.MustCompile(`자동|오토`)},
	{"manual", regexp.MustCompile(`(?i)수동|manual`)},
}

// Colors are collected as a set: several entries may fire on one query.
var colorTable = []keywordEntry{
	{"black", regexp.MustCompile(`검정|블랙|까만`)},
	{"white", regexp.MustCompile(`흰|화이트|하양|하얀`)},
	{"silver", regexp.MustCompile(`은색|실버`)},
	{"gray", regexp.MustCompile(`회색|그레이|쥐색`)},
	{"blue", regexp.MustCompile(`파랑|블루`)},
	{"red", regexp.MustCompile(`빨강|레드`)},
	{"green", regexp.MustCompile(`초록|그린`)},
	{"brown", regexp.MustCompile(`갈색|브라운`)},
	{"gold", regexp.MustCompile(`골드|금색`)},
	{"yellow", regexp.MustCompile(`노랑|옐로`)},
	{"orange", regexp.MustCompile(`오렌지|주황`)},
	{"purple", regexp.MustCompile(`보라|퍼플`)},
	{"dark", regexp.MustCompile(`어두운\s*색|진한\s*색|다크`)},
	{"bright", regexp.MustCompile(`밝은\s*색|라이트`)},
}

var (
	reNoAccident  = regexp.MustCompile(`무사고|사고\s*없|사고이력\s*없`)
	reHasAccident = regexp.MustCompile(`사고차|사고\s*있|사고이력\s*있`)
)

var (
	reBuyLike  = regexp.MustCompile(`사고\s*싶|추천|알려|고르|구매|찾아|고민|보여|찾아줘|추천해줘`)
	reSellLike = regexp.MustCompile(`판매|팔|매입|견적|시세`)

	reVehicleCtx = regexp.MustCompile(`(?i)차량|suv|세단|해치백|밴|승합|트럭|픽업|연비|예산|가격|만원|월\s*[0-9]+|할부|km|주행|연식|브랜드|모델|옵션|색상|lpg|디젤|가솔린|하이브리드|전기|\bev\b`)
)

func firstMatch(table []keywordEntry, text string) string {
	for _, e := range table {
		if e.re.MatchString(text) {
			return e.key
		}
	}
	return ""
}
