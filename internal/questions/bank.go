package questions

import "github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/domain"

// Bank returns a copy of the built-in question catalog. The catalog is the
// fallback when no database is configured; the seed command loads the same
// items into postgres.
func Bank() []domain.Question {
	out := make([]domain.Question, len(bank))
	copy(out, bank)
	return out
}

var bank = []domain.Question{
	// easy
	{
		ID:         "ez-01",
		Prompt:     "ما اسم بطل سلسلة ون بيس؟",
		Options:    []string{"مونكي دي لوفي", "رورونوا زورو", "سانجي", "شانكس"},
		Answer:     0,
		Difficulty: domain.DifficultyEasy,
		Hint:       "يرتدي قبعة القش دائمًا",
	},
	{
		ID:         "ez-02",
		Prompt:     "ما الفاكهة التي أكلها لوفي في طفولته؟",
		Options:    []string{"فاكهة النار", "فاكهة المطاط", "فاكهة الظلام", "فاكهة البرق"},
		Answer:     1,
		Difficulty: domain.DifficultyEasy,
		Hint:       "جعلت جسده يتمدد",
	},
	{
		ID:         "ez-03",
		Prompt:     "من هو طبيب طاقم قبعة القش؟",
		Options:    []string{"بروك", "فرانكي", "تشوبر", "جينبي"},
		Answer:     2,
		Difficulty: domain.DifficultyEasy,
		Hint:       "حيوان الرنة الصغير",
	},
	{
		ID:         "ez-04",
		Prompt:     "ما اسم السفينة الأولى لطاقم قبعة القش؟",
		Options:    []string{"ثاوزند صني", "موبي ديك", "أورو جاكسون", "غوينغ ميري"},
		Answer:     3,
		Difficulty: domain.DifficultyEasy,
		Hint:       "تحمل رأس خروف في مقدمتها",
	},
	{
		ID:         "ez-05",
		Prompt:     "من هو قنّاص طاقم قبعة القش؟",
		Options:    []string{"أوسوب", "زورو", "سانجي", "لوفي"},
		Answer:     0,
		Difficulty: domain.DifficultyEasy,
		Hint:       "صاحب الأنف الطويل",
	},
	{
		ID:         "ez-06",
		Prompt:     "ما هو حلم لوفي الأكبر؟",
		Options:    []string{"أن يصبح أقوى سياف", "أن يجد الأول بلو", "أن يصبح ملك القراصنة", "أن يرسم خريطة العالم"},
		Answer:     2,
		Difficulty: domain.DifficultyEasy,
		Hint:       "يصرخ به في كل معركة",
	},
	{
		ID:         "ez-07",
		Prompt:     "من هو طبّاخ الطاقم؟",
		Options:    []string{"فرانكي", "سانجي", "أوسوب", "بروك"},
		Answer:     1,
		Difficulty: domain.DifficultyEasy,
		Hint:       "يقاتل بقدميه فقط",
	},
	{
		ID:         "ez-08",
		Prompt:     "كم سيفًا يستخدم زورو في قتاله؟",
		Options:    []string{"سيف واحد", "سيفان", "ثلاثة سيوف", "أربعة سيوف"},
		Answer:     2,
		Difficulty: domain.DifficultyEasy,
		Hint:       "أسلوبه يسمى سانتوريو",
	},
	{
		ID:         "ez-09",
		Prompt:     "من أعطى لوفي قبعة القش؟",
		Options:    []string{"غارب", "ايس", "رايلي", "شانكس"},
		Answer:     3,
		Difficulty: domain.DifficultyEasy,
		Hint:       "قرصان أحمر الشعر",
	},
	{
		ID:         "ez-10",
		Prompt:     "من هي ملّاحة طاقم قبعة القش؟",
		Options:    []string{"نامي", "روبن", "فيفي", "هانكوك"},
		Answer:     0,
		Difficulty: domain.DifficultyEasy,
		Hint:       "تحب البرتقال والخرائط",
	},

	// medium
	{
		ID:         "md-01",
		Prompt:     "ما اسم أخي لوفي الذي توفي في حرب مارينفورد؟",
		Options:    []string{"سابو", "ايس", "لو", "كيد"},
		Answer:     1,
		Difficulty: domain.DifficultyMedium,
		Hint:       "مستخدم فاكهة النار",
	},
	{
		ID:         "md-02",
		Prompt:     "من صنع سفينة ثاوزند صني؟",
		Options:    []string{"فرانكي", "توم", "أيسبرغ", "أوسوب"},
		Answer:     0,
		Difficulty: domain.DifficultyMedium,
		Hint:       "سايبورغ يشرب الكولا",
	},
	{
		ID:         "md-03",
		Prompt:     "ما اسم جَدّ لوفي؟",
		Options:    []string{"مونكي دي دراغون", "سينغوكو", "مونكي دي غارب", "كيزارو"},
		Answer:     2,
		Difficulty: domain.DifficultyMedium,
		Hint:       "بطل البحرية الملقب بالقبضة",
	},
	{
		ID:         "md-04",
		Prompt:     "في أي بحر وُلد لوفي؟",
		Options:    []string{"نورث بلو", "ويست بلو", "ساوث بلو", "إيست بلو"},
		Answer:     3,
		Difficulty: domain.DifficultyMedium,
		Hint:       "يوصف بأنه أضعف البحار الأربعة",
	},
	{
		ID:         "md-05",
		Prompt:     "من هي عالمة الآثار في طاقم قبعة القش؟",
		Options:    []string{"نيكو روبن", "نامي", "بيرونا", "ريجو"},
		Answer:     0,
		Difficulty: domain.DifficultyMedium,
		Hint:       "الناجية الوحيدة من أوهارا",
	},
	{
		ID:         "md-06",
		Prompt:     "ما اسم الهيكل العظمي الموسيقي في الطاقم؟",
		Options:    []string{"ريوما", "بروك", "لابون", "يوركي"},
		Answer:     1,
		Difficulty: domain.DifficultyMedium,
		Hint:       "يطلب دائمًا رؤية الملابس الداخلية",
	},
	{
		ID:         "md-07",
		Prompt:     "ما اسم تنظيم الثوار الذي يقوده والد لوفي؟",
		Options:    []string{"السيفن وورلورد", "جيش الثورة", "السايفر بول", "الماريجوا"},
		Answer:     1,
		Difficulty: domain.DifficultyMedium,
		Hint:       "يعارض الحكومة العالمية",
	},
	{
		ID:         "md-08",
		Prompt:     "من كان نائب قبطان طاقم قراصنة روجر؟",
		Options:    []string{"سيلفرز رايلي", "كروكس", "غابان", "شانكس"},
		Answer:     0,
		Difficulty: domain.DifficultyMedium,
		Hint:       "درّب لوفي على الهاكي لمدة عامين",
	},

	// hard
	{
		ID:         "hd-01",
		Prompt:     "كم كانت أول مكافأة وُضعت على رأس لوفي؟",
		Options:    []string{"10 ملايين بيلي", "30 مليون بيلي", "50 مليون بيلي", "100 مليون بيلي"},
		Answer:     1,
		Difficulty: domain.DifficultyHard,
		Hint:       "بعد هزيمته أرلونغ في الإيست بلو",
	},
	{
		ID:         "hd-02",
		Prompt:     "ما اسم والد لوفي؟",
		Options:    []string{"مونكي دي غارب", "غول دي روجر", "مونكي دي دراغون", "بورتغاس دي روج"},
		Answer:     2,
		Difficulty: domain.DifficultyHard,
		Hint:       "أخطر مجرم في العالم",
	},
	{
		ID:         "hd-03",
		Prompt:     "ما اسم السيف الأسود الذي حصل عليه زورو في ثريلر بارك؟",
		Options:    []string{"شوسوي", "واداو إيتشيمونجي", "إنما", "ساندai كيتيتسو"},
		Answer:     0,
		Difficulty: domain.DifficultyHard,
		Hint:       "كان سيف الساموراي ريوما",
	},
	{
		ID:         "hd-04",
		Prompt:     "ما اسم سفينة قراصنة روجر؟",
		Options:    []string{"موبي ديك", "أورو جاكسون", "ريد فورس", "بولي تانكا"},
		Answer:     1,
		Difficulty: domain.DifficultyHard,
		Hint:       "بناها توم في ووتر سفن",
	},
	{
		ID:         "hd-05",
		Prompt:     "من كان قائد الفرقة الأولى في طاقم اللحية البيضاء؟",
		Options:    []string{"ايس", "ماركو", "جوز", "فيستا"},
		Answer:     1,
		Difficulty: domain.DifficultyHard,
		Hint:       "مستخدم فاكهة العنقاء",
	},
	{
		ID:         "hd-06",
		Prompt:     "ما عدد الطرق الممكنة لدخول الغراند لاين من ريفرس ماونتن؟",
		Options:    []string{"ثلاث طرق", "خمس طرق", "سبع طرق", "طريق واحد"},
		Answer:     2,
		Difficulty: domain.DifficultyHard,
		Hint:       "يحدد اللوغ بوس أحدها",
	},
}
