package calc_test

import (
	"testing"

	"github.com/calcstack/calcd/domain/calc"
)

func TestBMR_MifflinStJeor(t *testing.T) {
	// 80kg, 180cm, 30y male: 10*80 + 6.25*180 - 5*30 + 5 = 1780
	if got := calc.BMR(80, 180, 30, calc.GenderMale); got != 1780 {
		t.Errorf("male BMR = %v, want 1780", got)
	}
	// 60kg, 165cm, 25y female: 600 + 1031.25 - 125 - 161 = 1345.25
	if got := calc.BMR(60, 165, 25, calc.GenderFemale); got != 1345.25 {
		t.Errorf("female BMR = %v, want 1345.25", got)
	}
}

func TestCalorie_SedentaryMaintain(t *testing.T) {
	result := calc.Calorie(80, 180, 30, calc.GenderMale, "sedentary", "maintain")

	if result.BMR != 1780 {
		t.Errorf("bmr = %v, want 1780", result.BMR)
	}
	if result.TDEE != 2136 { // 1780 * 1.2
		t.Errorf("tdee = %v, want 2136", result.TDEE)
	}
	if result.TargetCalories != result.TDEE {
		t.Errorf("targetCalories = %v, want tdee %v", result.TargetCalories, result.TDEE)
	}
}

func TestCalorie_GoalOffsets(t *testing.T) {
	base := calc.Calorie(80, 180, 30, calc.GenderMale, "sedentary", "maintain")

	loss := calc.Calorie(80, 180, 30, calc.GenderMale, "sedentary", "mildLoss")
	if loss.TargetCalories != base.TargetCalories-500 {
		t.Errorf("mildLoss target = %v, want %v", loss.TargetCalories, base.TargetCalories-500)
	}

	gain := calc.Calorie(80, 180, 30, calc.GenderMale, "sedentary", "gain")
	if gain.TargetCalories != base.TargetCalories+1000 {
		t.Errorf("gain target = %v, want %v", gain.TargetCalories, base.TargetCalories+1000)
	}
}

func TestCalorie_ActivityTable(t *testing.T) {
	sedentary := calc.Calorie(70, 170, 40, calc.GenderFemale, "sedentary", "maintain")
	veryActive := calc.Calorie(70, 170, 40, calc.GenderFemale, "veryActive", "maintain")

	// veryActive multiplier is 1.9 vs 1.2
	if veryActive.TDEE <= sedentary.TDEE {
		t.Errorf("veryActive tdee %v not above sedentary %v", veryActive.TDEE, sedentary.TDEE)
	}
}

func TestCalorie_MacroSplit(t *testing.T) {
	result := calc.Calorie(80, 180, 30, calc.GenderMale, "sedentary", "maintain")

	// 30/40/30 at 4/4/9 kcal per gram reassembles into the target
	kcal := result.Macros.ProteinGrams*4 + result.Macros.CarbsGrams*4 + result.Macros.FatGrams*9
	if !approxEqual(kcal, result.TargetCalories, 2) {
		t.Errorf("macros total %v kcal, want ~%v", kcal, result.TargetCalories)
	}
}

func TestCalorie_MealsSumToTarget(t *testing.T) {
	result := calc.Calorie(80, 180, 30, calc.GenderMale, "moderatelyActive", "maintain")

	var sum float64
	for _, m := range result.MealsBreakdown {
		sum += m.Calories
	}
	if !approxEqual(sum, result.TargetCalories, 2) {
		t.Errorf("meals sum %v, want ~%v", sum, result.TargetCalories)
	}
	if len(result.MealsBreakdown) != 4 {
		t.Errorf("meals = %d, want 4", len(result.MealsBreakdown))
	}
}
