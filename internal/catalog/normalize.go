package catalog

import (
	"regexp"
	"strings"

	"carsearch/internal/model"
)

// Inference tables for body type and brand, applied to the car name when the
// feed record carries no explicit value. First match wins, so SUV entries
// must precede sedan entries for overlapping trims.

type nameRule struct {
	key string
	re  *regexp.Regexp
}

var bodyTypeRules = []nameRule{
	{"suv", regexp.MustCompile(`(?i)스포티지|투싼|싼타페|쏘렌토|팰리세이드|펠리세이드|모하비|코나|셀토스|니로|베뉴|티볼리|코란도|렉스턴|토레스|QM6|XM3|트랙스|트레일블레이저|이쿼녹스|GV[678]0|GV60|X[1-7]\b|GL[ABCE]|티구안|투아렉|RAV4|CR-?V|suv`)},
	{"van", regexp.MustCompile(`(?i)카니발|스타렉스|스타리아|쏠라티|밴\b|승합`)},
	{"truck", regexp.MustCompile(`(?i)포터|봉고|마이티|메가트럭|트럭`)},
	{"hatch", regexp.MustCompile(`(?i)i30|벨로스터|클리오|골프\b|폴로|해치`)},
	{"wagon", regexp.MustCompile(`(?i)왜건|투어링|아반트\b`)},
	{"coupe", regexp.MustCompile(`(?i)쿠페|스팅어|911|카이맨|GT\b`)},
	{"sedan", regexp.MustCompile(`(?i)아반떼|쏘나타|그랜저|제네시스(?:\s|$)|G[789]0|K[3579]\b|K8\b|SM[3567]|말리부|크루즈|아슬란|에쿠스|체어맨|[CES]\s?클래스|[CES][0-9]{3}|[357]시리즈|A[468]\b|파사트|제타|캠리|어코드|세단`)},
	{"mini", regexp.MustCompile(`모닝|스파크|레이\b|캐스퍼|마티즈`)},
}

var brandRules = []nameRule{
	{"제네시스", regexp.MustCompile(`(?i)제네시스|G[789]0\b|GV[678]0|GV60`)},
	{"현대", regexp.MustCompile(`(?i)현대|아반떼|쏘나타|그랜저|싼타페|투싼|팰리세이드|펠리세이드|코나|베뉴|캐스퍼|아이오닉|스타렉스|스타리아|쏠라티|포터|i30|벨로스터|아슬란|에쿠스`)},
	{"기아", regexp.MustCompile(`(?i)기아|모닝|레이\b|K[3579]\b|K8\b|쏘렌토|스포티지|카니발|셀토스|니로|모하비|스팅어|봉고|EV[69]\b`)},
	{"쉐보레", regexp.MustCompile(`(?i)쉐보레|쉐비|스파크|마티즈|말리부|크루즈|트랙스|트레일블레이저|이쿼녹스|임팔라|카마로`)},
	{"르노코리아", regexp.MustCompile(`(?i)르노|삼성|SM[3567]\b|QM[36]\b|XM3|클리오|캡처`)},
	{"KG모빌리티", regexp.MustCompile(`(?i)쌍용|KG\s*모빌리티|티볼리|코란도|렉스턴|토레스|체어맨`)},
	{"벤츠", regexp.MustCompile(`(?i)벤츠|mercedes|[CES]\s?클래스|[CES][0-9]{3}\b|GL[ABCE]|마이바흐|AMG`)},
	{"BMW", regexp.MustCompile(`(?i)BMW|비엠더블유|[357]시리즈|X[1-7]\b|미니\s*쿠퍼`)},
	{"아우디", regexp.MustCompile(`(?i)아우디|audi|A[468]\b|Q[3578]\b|아반트`)},
	{"폭스바겐", regexp.MustCompile(`(?i)폭스바겐|volkswagen|티구안|투아렉|골프\b|폴로|파사트|제타`)},
	{"토요타", regexp.MustCompile(`(?i)토요타|도요타|렉서스|캠리|RAV4|프리우스`)},
	{"혼다", regexp.MustCompile(`(?i)혼다|honda|어코드|CR-?V|시빅`)},
	{"테슬라", regexp.MustCompile(`(?i)테슬라|tesla|모델\s*[3SXY]`)},
}

var fuelRules = []nameRule{
	{"diesel", regexp.MustCompile(`(?i)디젤|diesel|경유`)},
	{"hybrid", regexp.MustCompile(`(?i)하이브리드|hybrid|hev|phev`)},
	{"ev", regexp.MustCompile(`(?i)전기|electric|\bev\b`)},
	{"lpg", regexp.MustCompile(`(?i)lpg|lpi|엘피지`)},
	{"gasoline", regexp.MustCompile(`(?i)가솔린|휘발유|gasoline|petrol`)},
}

var gearRules = []nameRule{
	{"auto", regexp.MustCompile(`(?i)오토|자동|auto|a/?t`)},
	{"manual", regexp.MustCompile(`(?i)수동|manual|m/?t`)},
}

var bodyAliasRules = []nameRule{
	{"suv", regexp.MustCompile(`(?i)suv|rv`)},
	{"sedan", regexp.MustCompile(`(?i)세단|sedan`)},
	{"hatch", regexp.MustCompile(`(?i)해치|hatch`)},
	{"van", regexp.MustCompile(`(?i)밴|승합|van`)},
	{"truck", regexp.MustCompile(`(?i)트럭|화물|truck`)},
	{"wagon", regexp.MustCompile(`(?i)왜건|wagon`)},
	{"coupe", regexp.MustCompile(`(?i)쿠페|coupe`)},
	{"mini", regexp.MustCompile(`경차`)},
}

// Feed colors arrive in mixed vocabularies (한글, transliterations, English).
// They are canonicalized to the same English keys the intent extractor
// produces, so color constraints compare like against like.
var colorRules = []nameRule{
	{"black", regexp.MustCompile(`(?i)검정|검은|블랙|흑색|black`)},
	{"white", regexp.MustCompile(`(?i)흰|하양|하얀|화이트|백색|white`)},
	{"silver", regexp.MustCompile(`(?i)은색|은빛|실버|silver`)},
	{"gray", regexp.MustCompile(`(?i)회색|그레이|쥐색|gr[ae]y`)},
	{"blue", regexp.MustCompile(`(?i)파랑|파란|청색|남색|블루|blue`)},
	{"red", regexp.MustCompile(`(?i)빨강|빨간|적색|레드|red`)},
	{"green", regexp.MustCompile(`(?i)초록|녹색|그린|green`)},
	{"brown", regexp.MustCompile(`(?i)갈색|브라운|brown`)},
	{"gold", regexp.MustCompile(`(?i)금색|골드|gold`)},
	{"yellow", regexp.MustCompile(`(?i)노랑|노란|옐로|yellow`)},
	{"orange", regexp.MustCompile(`(?i)주황|오렌지|orange`)},
	{"purple", regexp.MustCompile(`(?i)보라|퍼플|purple`)},
}

var segmentAliasRules = []nameRule{
	{"mini", regexp.MustCompile(`(?i)경차|^a$`)},
	{"subcompact", regexp.MustCompile(`(?i)소형|^b$`)},
	{"compact", regexp.MustCompile(`(?i)준중형|^c$`)},
	{"midsize", regexp.MustCompile(`(?i)중형|^d$`)},
	{"fullsize", regexp.MustCompile(`(?i)대형|준대형|^[ef]$`)},
}

func applyRules(rules []nameRule, text string) string {
	if text == "" {
		return ""
	}
	for _, r := range rules {
		if r.re.MatchString(text) {
			return r.key
		}
	}
	return ""
}

// normalizeRecord converts one raw feed record into a catalog listing.
// Returns false when the record has no name at all, which makes it useless
// for both filtering and text scoring.
func normalizeRecord(rec rawRecord) (model.Listing, bool) {
	name := string(rec.CarName)
	if name == "" {
		name = string(rec.Name)
	}
	if name == "" {
		return model.Listing{}, false
	}

	color := strings.TrimSpace(string(rec.Color))
	if c := applyRules(colorRules, color); c != "" {
		color = c
	}

	l := model.Listing{
		CarNo:        string(rec.CarNo),
		CarName:      name,
		Make:         string(rec.Brand),
		Model:        string(rec.ModelName),
		Year:         rec.Yyyy.ptr(),
		Km:           rec.Km.ptr(),
		Price:        rec.DemoAmt.ptr(),
		MonthlyPrice: rec.MonthlyDemoAmt.ptr(),
		NoAccident:   rec.NoAccident.ptr(),
		Color:        color,
		Options:      model.JSONArray(rec.Options),
		Tags:         model.JSONArray(rec.Tags),
	}

	fuelRaw := string(rec.Fuel)
	if fuelRaw == "" {
		fuelRaw = string(rec.FuelName)
	}
	l.FuelType = applyRules(fuelRules, fuelRaw)
	if l.FuelType == "" {
		l.FuelType = applyRules(fuelRules, name)
	}

	l.BodyType = applyRules(bodyAliasRules, string(rec.BodyType))
	if l.BodyType == "" {
		l.BodyType = applyRules(bodyTypeRules, name)
	}
	// mini is a segment, not a body shape
	if l.BodyType == "mini" {
		l.BodyType = ""
		if l.Segment == "" {
			l.Segment = "mini"
		}
	}

	if seg := applyRules(segmentAliasRules, string(rec.Segment)); seg != "" {
		l.Segment = seg
	}

	if l.Make == "" {
		l.Make = applyRules(brandRules, name)
	}
	l.Transmission = applyRules(gearRules, string(rec.Gear))

	// negative numerics mean a feed glitch, treat as unknown
	for _, p := range []**int{&l.Year, &l.Km, &l.Price, &l.MonthlyPrice} {
		if *p != nil && **p < 0 {
			*p = nil
		}
	}
	return l, true
}
