// Package words holds the Arabic game data: the letter set for the
// word-category game and the category word bank for the spy game.
package words

import "math/rand"

// Letters is the 28-letter alphabet rounds draw from.
var Letters = []string{
	"أ", "ب", "ت", "ث", "ج", "ح", "خ", "د", "ذ", "ر", "ز", "س", "ش",
	"ص", "ض", "ط", "ظ", "ع", "غ", "ف", "ق", "ك", "ل", "م", "ن", "ه", "و", "ي",
}

// DefaultCategories is the default word-category selection.
var DefaultCategories = []string{"boy", "girl", "animal", "plant", "object", "country"}

// DefaultSpyCategories is the default spy category selection.
var DefaultSpyCategories = []string{"animal", "object", "food", "place", "country"}

// Category is one spy word pool.
type Category struct {
	Key   string
	Label string
	Words []string
}

// Categories is the spy word bank, keyed by category key.
var Categories = map[string]Category{
	"animal": {
		Key:   "animal",
		Label: "🦁 حيوان",
		Words: []string{
			"أسد", "نمر", "فيل", "زرافة", "قرد", "دب", "ذئب", "ثعلب", "أرنب", "غزال",
			"حصان", "جمل", "بقرة", "خروف", "ماعز", "قط", "كلب", "فأر", "سلحفاة", "تمساح",
			"ثعبان", "نسر", "ببغاء", "حمامة", "بطريق", "دولفين", "حوت", "سمكة قرش", "أخطبوط", "فراشة",
			"نحلة", "عقرب", "عنكبوت", "وحيد القرن", "فهد", "باندا", "كنغر", "كوالا", "حمار وحشي", "فلامنجو",
			"بومة", "صقر", "ديك", "بطة", "إوزة", "حمار", "غراب", "طاووس", "سنجاب", "خفاش",
		},
	},
	"object": {
		Key:   "object",
		Label: "📦 جماد",
		Words: []string{
			"كرسي", "طاولة", "سرير", "مرآة", "ساعة", "مفتاح", "قلم", "كتاب", "هاتف", "تلفزيون",
			"ثلاجة", "غسالة", "مكنسة", "مروحة", "مكيف", "لمبة", "شمعة", "حقيبة", "محفظة", "نظارة",
			"مظلة", "وسادة", "بطانية", "صحن", "كوب", "ملعقة", "شوكة", "سكين", "قدر", "مقلاة",
			"فرشاة أسنان", "مشط", "صابون", "منشفة", "دلو", "مسمار", "مطرقة", "مقص", "إبرة", "خيط",
			"دفتر", "ممحاة", "مسطرة", "حاسبة", "سماعة", "شاحن", "فلاشة", "ماوس", "لوحة مفاتيح", "شاشة",
		},
	},
	"food": {
		Key:   "food",
		Label: "🍕 أكل",
		Words: []string{
			"كشري", "فول", "طعمية", "شاورما", "كباب", "كفتة", "ملوخية", "محشي", "مسقعة", "فتة",
			"بيتزا", "برجر", "سوشي", "باستا", "لازانيا", "سلطة", "شوربة", "فراخ مشوية", "سمك مشوي", "رز",
			"عيش", "جبنة", "زبدة", "بيض", "لبن", "زبادي", "عسل", "مربى", "شيبسي", "بسكويت",
			"كيك", "آيس كريم", "شوكولاتة", "حلاوة", "بسبوسة", "كنافة", "قطايف", "أم علي", "بقلاوة", "كريب",
			"فلافل", "حمص", "فول سوداني", "لب", "ذرة مشوي", "بطاطس محمرة", "مكرونة", "كبدة", "سجق", "حواوشي",
		},
	},
	"place": {
		Key:   "place",
		Label: "📍 مكان",
		Words: []string{
			"مدرسة", "مستشفى", "مسجد", "كنيسة", "سوبرماركت", "مطعم", "كافيه", "سينما", "مكتبة", "ملعب",
			"حديقة", "شاطئ", "جبل", "صحراء", "غابة", "نهر", "بحيرة", "شلال", "كهف", "جزيرة",
			"مطار", "محطة قطر", "موقف أتوبيس", "فندق", "متحف", "قلعة", "قصر", "برج", "جسر", "نفق",
			"مصنع", "مزرعة", "حديقة حيوان", "ملاهي", "سيرك", "استاد", "جامعة", "مختبر", "صيدلية", "بنك",
			"بقالة", "مخبز", "جزار", "صالون", "جيم", "حمام سباحة", "مغسلة", "ورشة", "جراج", "مول",
		},
	},
	"country": {
		Key:   "country",
		Label: "🌍 بلد",
		Words: []string{
			"مصر", "السعودية", "الإمارات", "الكويت", "قطر", "البحرين", "عمان", "الأردن", "لبنان", "سوريا",
			"العراق", "فلسطين", "اليمن", "ليبيا", "تونس", "الجزائر", "المغرب", "السودان", "الصومال", "جيبوتي",
			"أمريكا", "كندا", "بريطانيا", "فرنسا", "ألمانيا", "إيطاليا", "إسبانيا", "البرتغال", "هولندا", "بلجيكا",
			"تركيا", "إيران", "الهند", "الصين", "اليابان", "كوريا", "أستراليا", "البرازيل", "المكسيك", "الأرجنتين",
			"روسيا", "أوكرانيا", "بولندا", "السويد", "النرويج", "سويسرا", "النمسا", "اليونان", "تايلاند", "ماليزيا",
		},
	},
	"job": {
		Key:   "job",
		Label: "👨‍💼 مهنة",
		Words: []string{
			"دكتور", "مهندس", "محامي", "معلم", "ضابط", "طيار", "رائد فضاء", "صحفي", "مصور", "ممثل",
			"مغني", "رسام", "نحات", "كاتب", "شيف", "نجار", "حداد", "سباك", "كهربائي", "ميكانيكي",
			"سائق", "بحار", "صياد", "فلاح", "خباز", "جزار", "حلاق", "خياط", "عطار", "صيدلي",
			"محاسب", "مبرمج", "مصمم", "مترجم", "حارس أمن", "إطفائي", "ممرض", "طبيب أسنان", "بيطري", "مدرب",
			"حكم", "لاعب كرة", "مذيع", "مخرج", "منتج", "رجل أعمال", "عالم", "فيلسوف", "قاضي", "دبلوماسي",
		},
	},
	"sport": {
		Key:   "sport",
		Label: "⚽ رياضة",
		Words: []string{
			"كرة قدم", "كرة سلة", "كرة طائرة", "كرة يد", "تنس", "تنس طاولة", "بادل", "سباحة", "غطس", "تزلج",
			"ملاكمة", "مصارعة", "جودو", "كاراتيه", "تايكوندو", "كونغ فو", "رماية", "رمي الرمح", "رمي القرص", "الوثب الطويل",
			"الوثب العالي", "ركوب خيل", "بولو", "جولف", "بيسبول", "كريكيت", "رجبي", "هوكي", "تزلج على الجليد", "سباق سيارات",
			"دراجات", "ماراثون", "ترياثلون", "رفع أثقال", "جمباز", "باليه", "يوجا", "سكواش", "بولينج", "بلياردو",
			"شطرنج", "سهام", "صيد", "تسلق جبال", "باراشوت", "تجديف", "قوارب شراعية", "ووتر بولو", "كرة ماء", "سيرف",
		},
	},
	"movie": {
		Key:   "movie",
		Label: "🎬 فيلم/مسلسل",
		Words: []string{
			"الناظر", "عسل أسود", "الليمبي", "صعيدي في الجامعة", "مرجان أحمد مرجان", "الباشا تلميذ", "زكي شان", "جعلتني مجرماً", "اللي بالي بالك",
			"همام في أمستردام", "أبو علي", "كلم ماما", "ولاد العم", "تيمور وشفيقة", "كابتن مصر", "الفيل الأزرق", "تراب الماس", "كيرة والجن", "واحد صحيح",
			"عمر وسلمى", "البيه البواب", "سمير أبو النيل", "طباخ الريس", "جري الوحوش", "حين ميسرة", "هستيريا", "الحفلة", "غبي منه فيه",
			"لا تراجع ولا استسلام", "الجزيرة", "الممر", "كلمني شكراً", "عوكل", "أولاد رزق", "حرب كرموز", "الخلية", "كازابلانكا", "نادي الرجال السري",
		},
	},
	"celebrity": {
		Key:   "celebrity",
		Label: "⭐ شخصية مشهورة",
		Words: []string{
			"محمد صلاح", "عمرو دياب", "أحمد حلمي", "محمد هنيدي", "عادل إمام", "كريستيانو رونالدو", "ليونيل ميسي", "محمد رمضان", "تامر حسني", "شيرين",
			"أنغام", "نانسي عجرم", "إليسا", "أحمد السقا", "كريم عبدالعزيز", "أحمد عز", "ياسمين عبدالعزيز", "منى زكي", "أحمد مكي", "محمد سعد",
			"بيومي فؤاد", "أكرم حسني", "علي ربيع", "أشرف عبدالباقي", "أمينة خليل", "نيللي كريم", "يسرا", "ليلى علوي", "هند صبري", "حسن الرداد",
			"إيمي سمير غانم", "حمادة هلال", "مصطفى قمر", "خالد النبوي", "أحمد زكي", "نور الشريف", "محمود عبدالعزيز", "سعاد حسني", "فاتن حمامة", "عمر الشريف",
		},
	},
	"clothing": {
		Key:   "clothing",
		Label: "👔 لبس",
		Words: []string{
			"تيشيرت", "قميص", "بنطلون", "جينز", "شورت", "فستان", "جيبة", "بلوزة", "جاكيت", "كوت",
			"بالطو", "سويتر", "هودي", "عباية", "جلابية", "طرحة", "حجاب", "إيشارب", "كرافتة", "بابيون",
			"حذاء", "صندل", "شبشب", "جزمة", "كوتشي", "كعب", "شراب", "قفاز", "قبعة", "طاقية",
			"نظارة شمس", "ساعة يد", "خاتم", "سلسلة", "حلق", "بروش", "حزام", "بيجامة", "روب", "مايوه",
		},
	},
}

// ValidSpyCategories filters the requested keys down to known categories.
func ValidSpyCategories(keys []string) []string {
	valid := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := Categories[k]; ok {
			valid = append(valid, k)
		}
	}
	return valid
}

// Label returns the display label for a category key, or the key itself if
// unknown.
func Label(key string) string {
	if cat, ok := Categories[key]; ok {
		return cat.Label
	}
	return key
}

// Pick chooses a random category from the selection and a random word from
// its pool that is not in used. When the pool is exhausted, the used set is
// recycled for that category rather than failing: rounds never block on
// exhaustion. Returns the chosen category, the word, and the used entries to
// drop (nil unless the pool recycled).
func Pick(rng *rand.Rand, selection []string, used []string) (category, word string, recycled []string) {
	key := selection[rng.Intn(len(selection))]
	cat, ok := Categories[key]
	if !ok {
		return key, "كلمة", nil
	}

	usedSet := make(map[string]bool, len(used))
	for _, w := range used {
		usedSet[w] = true
	}

	available := make([]string, 0, len(cat.Words))
	for _, w := range cat.Words {
		if !usedSet[w] {
			available = append(available, w)
		}
	}
	if len(available) == 0 {
		available = cat.Words
		recycled = cat.Words
	}

	return key, available[rng.Intn(len(available))], recycled
}

// GuessOptions builds the correct word mixed with up to n decoys from the
// same category, shuffled.
func GuessOptions(rng *rand.Rand, category, correct string, n int) []string {
	options := []string{correct}
	if cat, ok := Categories[category]; ok {
		decoys := make([]string, 0, len(cat.Words))
		for _, w := range cat.Words {
			if w != correct {
				decoys = append(decoys, w)
			}
		}
		rng.Shuffle(len(decoys), func(i, j int) {
			decoys[i], decoys[j] = decoys[j], decoys[i]
		})
		if len(decoys) > n {
			decoys = decoys[:n]
		}
		options = append(options, decoys...)
	}
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}
