package ingredient

// DefaultSeedNames 預載的常見食材
var DefaultSeedNames = []string{
	// 채소
	"배추", "무", "당근", "감자", "고구마", "양파", "대파", "마늘", "생강", "시금치",
	"상추", "깻잎", "부추", "콩나물", "숙주", "브로콜리", "양배추", "오이", "호박", "애호박",
	"가지", "고추", "파프리카", "토마토", "셀러리", "미나리", "연근", "우엉", "도라지", "쑥갓",
	"청경채", "비트", "아스파라거스", "케일", "청양고추", "피망", "쪽파", "방울토마토", "단호박", "새송이버섯",
	"팽이버섯", "표고버섯", "느타리버섯", "양송이버섯", "무순", "비타민", "고사리", "취나물", "냉이", "달래",
	// 과일
	"사과", "배", "귤", "오렌지", "바나나", "딸기", "포도", "수박", "참외", "복숭아",
	"자두", "감", "키위", "망고", "블루베리", "체리", "레몬", "라임", "파인애플", "아보카도",
	"한라봉", "석류", "유자", "대추", "무화과", "라즈베리", "매실", "살구", "천도복숭아", "코코넛",
	// 육류
	"소고기", "돼지고기", "닭고기", "오리고기", "양고기", "소갈비", "삼겹살", "목살", "안심", "등심",
	"닭가슴살", "닭날개", "차돌박이", "갈비살", "항정살", "족발", "곱창", "베이컨", "소시지", "햄",
	// 해산물
	"연어", "고등어", "참치", "갈치", "오징어", "새우", "조개", "굴", "전복", "꽃게",
	"미역", "다시마", "김", "멸치",
	"광어", "도미", "대구", "삼치", "장어", "낙지", "문어", "홍합", "바지락", "꼬막",
	"가리비", "대하", "해삼", "톳", "파래",
	// 곡물, 콩
	"쌀", "현미", "찹쌀", "보리", "밀가루", "두부", "콩", "팥", "녹두", "옥수수",
	"귀리", "메밀", "수수", "율무", "전분", "떡", "당면", "국수", "라면",
	// 양념, 가공
	"고추장", "된장", "간장", "참기름", "들기름", "식초", "버터", "치즈", "우유", "달걀",
	"꿀", "설탕", "소금", "후추", "카레가루", "고춧가루",
	"마요네즈", "케첩", "쌈장", "맛술", "올리브오일", "생크림", "요거트", "두유", "크림치즈", "모짜렐라치즈",
	"어묵", "쌀국수", "물엿", "굴소스", "식용유",
}
