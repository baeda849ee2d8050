package calc

// Gender strings accepted by the BMR formula.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// ActivityMultipliers maps activity level names to TDEE multipliers.
var ActivityMultipliers = map[string]float64{
	"sedentary":        1.2,
	"lightlyActive":    1.375,
	"moderatelyActive": 1.55,
	"active":           1.725,
	"veryActive":       1.9,
}

// GoalAdjustments maps goal names to daily caloric offsets on TDEE.
var GoalAdjustments = map[string]float64{
	"maintain":   0,
	"mildLoss":   -500,
	"loss":       -1000,
	"mildGain":   500,
	"gain":       1000,
}

// Macro split: 30% protein / 40% carbs / 30% fat, at 4/4/9 kcal per gram.
const (
	proteinShare = 0.30
	carbsShare   = 0.40
	fatShare     = 0.30

	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// Macros is a daily macronutrient allocation in grams (value type).
type Macros struct {
	ProteinGrams float64
	CarbsGrams   float64
	FatGrams     float64
}

// Meal is one entry of a per-meal calorie breakdown (value type).
type Meal struct {
	Name     string
	Calories float64
}

// CalorieResult holds the outcome of a calorie estimation (value type).
type CalorieResult struct {
	BMR            float64
	TDEE           float64
	TargetCalories float64
	Macros         Macros
	MealsBreakdown []Meal
}

// BMR computes basal metabolic rate via the Mifflin-St Jeor equation.
// Weight in kg, height in cm. Any gender string other than "male"
// receives the female offset.
func BMR(weight, height float64, age int, gender string) float64 {
	base := 10*weight + 6.25*height - 5*float64(age)
	if gender == GenderMale {
		return base + 5
	}
	return base - 161
}

// Calorie estimates daily caloric needs and a macro split.
// activityLevel must be a key of ActivityMultipliers and goal a key of
// GoalAdjustments; the edge layer validates both.
func Calorie(weight, height float64, age int, gender, activityLevel, goal string) CalorieResult {
	bmr := BMR(weight, height, age, gender)
	tdee := bmr * ActivityMultipliers[activityLevel]
	target := tdee + GoalAdjustments[goal]

	macros := Macros{
		ProteinGrams: Round(target*proteinShare/kcalPerGramProtein, 1),
		CarbsGrams:   Round(target*carbsShare/kcalPerGramCarbs, 1),
		FatGrams:     Round(target*fatShare/kcalPerGramFat, 1),
	}

	// Conventional 25/35/30/10 split across the day
	meals := []Meal{
		{Name: "breakfast", Calories: Round(target*0.25, 0)},
		{Name: "lunch", Calories: Round(target*0.35, 0)},
		{Name: "dinner", Calories: Round(target*0.30, 0)},
		{Name: "snacks", Calories: Round(target*0.10, 0)},
	}

	return CalorieResult{
		BMR:            Round(bmr, 0),
		TDEE:           Round(tdee, 0),
		TargetCalories: Round(target, 0),
		Macros:         macros,
		MealsBreakdown: meals,
	}
}
