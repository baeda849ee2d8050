package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/calcstack/calcd/adapters/solver"
	"github.com/calcstack/calcd/domain/calc"
	"github.com/calcstack/calcd/domain/convert"
	"github.com/calcstack/calcd/domain/datecalc"
	"github.com/calcstack/calcd/domain/password"
	"github.com/calcstack/calcd/domain/ratelimit"
)

// Calculator names. These double as the path segment under /api/.
const (
	APIBMI          = "bmi"
	APILoan         = "loan"
	APIMortgage     = "mortgage"
	APICompound     = "compound-interest"
	APIDiscount     = "discount"
	APITip          = "tip"
	APIPercentage   = "percentage"
	APIConvert      = "convert"
	APICalorie      = "calorie"
	APIPassword     = "password"
	APIRandom       = "random"
	APIAge          = "age"
	APIAICalculator = "ai-calculator"
)

// validate checks struct tags on decoded request payloads. Field names in
// error messages come from the json tag, matching what clients sent.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode unmarshals body into dst and runs struct validation, turning
// failures into client-facing 400 errors. Missing required fields are
// reported together ("a, b are required"); the first range violation is
// reported on its own.
func decode(body json.RawMessage, dst any) *Error {
	if len(body) == 0 {
		body = json.RawMessage("{}")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return Errorf("invalid JSON body")
	}

	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errorf("invalid request")
	}

	var missing []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return Errorf(strings.Join(missing, ", ") + " are required")
	}
	return Errorf(rangeMessage(verrs[0]))
}

// rangeMessage renders one non-required validation failure.
func rangeMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// enumError builds a 400 enumerating the valid options for a field.
func enumError(field string, options []string) *Error {
	return Errorf(fmt.Sprintf("%s must be one of: %s", field, strings.Join(options, ", ")))
}

// DefaultEndpoints returns the standard endpoint set. limits maps
// calculator names to their per-client rate limit; calculators absent
// from the map are unlimited.
func DefaultEndpoints(limits map[string]ratelimit.Config) []Endpoint {
	endpoints := []Endpoint{
		{Name: APIBMI, Exec: execBMI},
		{Name: APILoan, Exec: execLoan},
		{Name: APIMortgage, Exec: execMortgage},
		{Name: APICompound, Exec: execCompound},
		{Name: APIDiscount, Exec: execDiscount},
		{Name: APITip, Exec: execTip},
		{Name: APIPercentage, Exec: execPercentage},
		{Name: APIConvert, Exec: execConvert},
		{Name: APICalorie, Exec: execCalorie},
		{Name: APIPassword, Exec: execPassword},
		{Name: APIRandom, Exec: execRandom},
		{Name: APIAge, Exec: execAge},
		{Name: APIAICalculator, Exec: execAICalculator},
	}
	for i := range endpoints {
		if cfg, ok := limits[endpoints[i].Name]; ok {
			c := cfg
			endpoints[i].Limit = &c
		}
	}
	return endpoints
}

// --- BMI ---

type bmiRequest struct {
	Weight *float64 `json:"weight" validate:"required,gt=0"`
	Height *float64 `json:"height" validate:"required,gt=0"`
	Unit   string   `json:"unit"`
}

type healthyRangeResponse struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Unit string  `json:"unit"`
}

type bmiResponse struct {
	BMI          float64              `json:"bmi"`
	Category     string               `json:"category"`
	HealthyRange healthyRangeResponse `json:"healthyRange"`
}

func execBMI(_ context.Context, _ *CalcService, body json.RawMessage) (any, *Error) {
	var req bmiRequest
	if apiErr := decode(body, &req); apiErr != nil {
		return nil, apiErr
	}
	if req.Unit == "" {
		req.Unit = calc.UnitMetric
	}
	if req.Unit != calc.UnitMetric && req.Unit != calc.UnitImperial {
		return nil, enumError("unit", []string{calc.UnitMetric, calc.UnitImperial})
	}

	res, err := calc.BMI(*req.Weight, *req.Height, req.Unit)
	if err != nil {
		return nil, AuditedError(400, "calculation produced a non-finite result")
	}
	return bmiResponse{
		BMI:      res.BMI,
		Category: res.Category,
		HealthyRange: healthyRangeResponse{
			Min:  res.HealthyRange.Min,
			Max:  res.HealthyRange.Max,
			Unit: res.HealthyRange.Unit,
		},
	}, nil
}

// --- Loan ---

type loanRequest struct {
	Principal   *float64 `json:"principal" validate:"required,gt=0"`
	AnnualRate  *float64 `json:"annualRate" validate:"required,gte=0,lte=100"`
	TermMonths  *int     `json:"termMonths" validate:"required,gt=0,lte=600"`
	DownPayment float64  `json:"downPayment" validate:"gte=0"`
}

type loanResponse struct {
	LoanAmount     float64 `json:"loanAmount"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalPayment   float64 `json:"totalPayment"`
	TotalInterest  float64 `json:"totalInterest"`
	EffectiveRate  float64 `json:"effectiveRate"`
}

func execLoan(_ context.Context, _ *CalcService, body json.RawMessage) (any, *Error) {
	var req loanRequest
	if apiErr := decode(body, &req); apiErr != nil {
		return nil, apiErr
	}
	if req.DownPayment >= *req.Principal {
		return nil, Errorf("downPayment must be less than principal")
	}

	res, err := calc.Loan(*req.Principal, *req.AnnualRate, *req.TermMonths, req.DownPayment)
	if err != nil {
		return nil, AuditedError(400, "calculation produced a non-finite result")
	}
	return loanResponse{
		LoanAmount:     res.LoanAmount,
		MonthlyPayment: res.MonthlyPayment,
		TotalPayment:   res.TotalPayment,
		TotalInterest:  res.TotalInterest,
		EffectiveRate:  res.EffectiveRate,
	}, nil
}

// --- Mortgage ---

type mortgageRequest struct {
	HomePrice          *float64 `json:"homePrice" validate:"required,gt=0"`
	AnnualRate         *float64 `json:"annualRate" validate:"required,gte=0,lte=100"`
	LoanTermYears      *int     `json:"loanTermYears" validate:"required,gt=0,lte=50"`
	DownPaymentPercent float64  `json:"downPaymentPercent" validate:"gte=0,lt=100"`
}

type mortgageResponse struct {
	DownPayment    float64 `json:"downPayment"`
	LoanAmount     float64 `json:"loanAmount"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalPayment   float64 `json:"totalPayment"`
	TotalInterest  float64 `json:"totalInterest"`
	LoanToValue    float64 `json:"loanToValue"`
}

func execMortgage(_ context.Context, _ *CalcService, body json.RawMessage) (any, *Error) {
	var req mortgageRequest
	if apiErr := decode(body, &req); apiErr != nil {
		return nil, apiErr
	}

	res, err := calc.Mortgage(*req.HomePrice, *req.AnnualRate, *req.LoanTermYears, req.DownPaymentPercent)
	if err != nil {
		return nil, AuditedError(400, "calculation produced a non-finite result")
	}
	return mortgageResponse{
		DownPayment:    res.DownPayment,
		LoanAmount:     res.LoanAmount,
		MonthlyPayment: res.MonthlyPayment,
		TotalPayment:   res.TotalPayment,
		TotalInterest:  res.TotalInterest,
		LoanToValue:    res.LoanToValue,
	}, nil
}

// --- Compound interest ---

type compoundRequest struct {
	Principal            *float64 `json:"principal" validate:"required,gte=0"`
	AnnualRate           *float64 `json:"annualRate" validate:"required,gte=0,lte=100"`
	Years                *float64 `json:"years" validate:"required,gt=0,lte=100"`
	CompoundingFrequency int      `json:"compoundingFrequency" validate:"gte=0,lte=365"`
	MonthlyContribution  float64  `json:"monthlyContribution" validate:"gte=0"`
}

type compoundResponse struct {
	FinalAmount         float64 `json:"finalAmount"`
	TotalContributions  float64 `json:"totalContributions"`
	TotalInterestEarned float64 `json:"totalInterestEarned"`
	EffectiveAnnualRate float64 `json:"effectiveAnnualRate"`
}

func execCompound(_ context.Context, _ *CalcService, body json.RawMessage) (any, *Error) {
	var req compoundRequest
	if apiErr := decode(body, &req); apiErr != nil {
		return nil, apiErr
	}
	if req.CompoundingFrequency == 0 {
		req.CompoundingFrequency = 12
	}

	res, err := calc.CompoundInterest(*req.Principal, *req.AnnualRate, *req.Years, req.CompoundingFrequency, req.MonthlyContribution)
	if err != nil {
		return nil, AuditedError(400, "calculation produced a non-finite result")
	}
	return compoundResponse{
		FinalAmount:         res.FinalAmount,
		TotalContributions:  res.TotalContributions,
		TotalInterestEarned: res.TotalInterestEarned,
		EffectiveAnnualRate: res.EffectiveAnnualRate,
	}, nil
}

// --- Discount ---

type discountRequest struct {
	OriginalPrice   *float64 `json:"originalPrice" validate:"required,gt=0"`
	DiscountPercent *float64 `json:"discountPercent" validate:"required,gte=0,lte=100"`
	TaxPercent      float64  `json:"taxPercent" validate:"gte=0,lte=100"`
}

type discountResponse struct {
	DiscountAmount  float64 `json:"discountAmount"`
	DiscountedPrice float64 `json:"discountedPrice"`
	TaxAmount       float64 `json:"taxAmount"`
	FinalPrice      float64 `json:"finalPrice"`
	TotalSavings    float64 `json:"totalSavings"`
}

func execDiscount(_ context.Context, _ *CalcService, body json.RawMessage) (any, *Error) {
	var req discountRequest
	if apiErr := decode(body, &req); apiErr != nil {
		return nil, apiErr
	}

	res, err := calc.Discount(*req.OriginalPrice, *req.DiscountPercent, req.TaxPercent)
	if err != nil {
		return nil, AuditedError(400, "calculation produced a non-finite result")
	}
	return discountResponse{
		DiscountAmount:  res.DiscountAmount,
		DiscountedPrice: res.DiscountedPrice,
		TaxAmount:       res.TaxAmount,
		FinalPrice:      res.FinalPrice,
		TotalSavings:    res.TotalSavings,
	}, nil
}

// --- Tip ---

type tipRequest struct {
	BillAmount *float64 `json:"billAmount" validate:"required,gt=0"`
	TipPercent *float64 `json:"tipPercent" validate:"omitempty,gte=0,lte=100"`
	SplitCount int      `json:"splitCount" validate:"gte=0,lte=100"`
}

type tipSuggestionResponse struct {
	Percent   float64 `json:"percent"`
	TipAmount float64 `json:"tipAmount"`
	Total     float64 `json:"total"`
}

type tipResponse struct {
	TipAmount    float64                 `json:"tipAmount"`
	TotalAmount  float64                 `json:"totalAmount"`
	PerPerson    float64                 `json:"perPerson"`
	TipPerPerson float64                 `json:"tipPerPerson"`
	Suggestions  []tipSuggestionResponse `json:"suggestions"`
}

func execTip(_ context.Context, _ *CalcService, body json.RawMessage) (any, *Error) {
	var req tipRequest
	if apiErr := decode(body, &req); apiErr != nil {
		return nil, apiErr
	}
	tipPercent := 15.0
	if req.TipPercent != nil {
		tipPercent = *req.TipPercent
	}
	if req.SplitCount == 0 {
		req.SplitCount = 1
	}

	res, err := calc.Tip(*req.BillAmount, tipPercent, req.SplitCount)
	if err != nil {
		return nil, AuditedError(400, "calculation produced a non-finite result")
	}
	suggestions := make([]tipSuggestionResponse, 0, len(res.Suggestions))
	for _, s := range res.Suggestions {
		suggestions = append(suggestions, tipSuggestionResponse{
			Percent:   s.Percent,
			TipAmount: s.TipAmount,
			Total:     s.Total,
		})
	}
	return tipResponse{
		TipAmount:    res.TipAmount,
		TotalAmount:  res.TotalAmount,
		PerPerson:    res.PerPerson,
		TipPerPerson: res.TipPerPerson,
		Suggestions:  suggestions,
	}, nil
}

// --- Percentage ---

type percentageRequest struct {
	Operation string   `json:"operation" validate:"required"`
	Value1    *float64 `json:"value1" validate:"required"`
	Value2    *float64 `json:"value2" validate:"required"`
}

type percentageResponse struct {
	Result      float64 `json:"result"`
	Description string  `json:"description"`
	Direction   string  `json:"direction,omitempty"`
}

func execPercentage(_ context.Context, _ *CalcService, body json.RawMessage) (any, *Error) {
	var req percentageRequest
	if apiErr := decode(body, &req); apiErr != nil {
		return nil, apiErr
	}
	valid := false
	for _, op := range calc.PercentageOperations {
		if req.Operation == op {
			valid = true
			break
		}
	}
	if !valid {
		return nil, enumError("operation", calc.PercentageOperations)
	}

	res, err := calc.Percentage(req.Operation, *req.Value1, *req.Value2)
	if err != nil {
		return nil, AuditedError(400, "calculation produced a non-finite result")
	}
	return percentageResponse{
		Result:      res.Result,
		Description: res.Description,
		Direction:   res.Direction,
	}, nil
}

// --- Unit conversion ---

type convertRequest struct {
	Value    *float64 `json:"value" validate:"required"`
	From     string   `json:"from" validate:"required"`
	To       string   `json:"to" validate:"required"`
	Category string   `json:"category" validate:"required"`
}

type convertOutput struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

type convertResponse struct {
	Output  convertOutput `json:"output"`
	Formula string        `json:"formula"`
}

func execConvert(_ context.Context, _ *CalcService, body json.RawMessage) (any, *Error) {
	var req convertRequest
	if apiErr := decode(body, &req); apiErr != nil {
		return nil, apiErr
	}
	if !convert.ValidCategory(req.Category) {
		return nil, enumError("category", convert.Categories())
	}
	if !convert.ValidUnit(req.Category, req.From) {
		return nil, enumError("from", convert.Units(req.Category))
	}
	if !convert.ValidUnit(req.Category, req.To) {
		return nil, enumError("to", convert.Units(req.Category))
	}

	res, err := convert.Convert(*req.Value, req.From, req.To, req.Category)
	if err != nil {
		return nil, AuditedError(400, "calculation produced a non-finite result")
	}
	return convertResponse{
		Output:  convertOutput{Value: res.Value, Unit: res.Unit},
		Formula: res.Formula,
	}, nil
}

// --- Calorie ---

type calorieRequest struct {
	Weight        *float64 `json:"weight" validate:"required,gt=0,lte=500"`
	Height        *float64 `json:"height" validate:"required,gt=0,lte=300"`
	Age           *int     `json:"age" validate:"required,gte=1,lte=120"`
	Gender        string   `json:"gender" validate:"required"`
	ActivityLevel string   `json:"activityLevel"`
	Goal          string   `json:"goal"`
}

type macrosResponse struct {
	ProteinGrams float64 `json:"proteinGrams"`
	CarbsGrams   float64 `json:"carbsGrams"`
	FatGrams     float64 `json:"fatGrams"`
}

type mealResponse struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
}

type calorieResponse struct {
	BMR            float64        `json:"bmr"`
	TDEE           float64        `json:"tdee"`
	TargetCalories float64        `json:"targetCalories"`
	Macros         macrosResponse `json:"macros"`
	MealsBreakdown []mealResponse `json:"mealsBreakdown"`
}

func execCalorie(_ context.Context, _ *CalcService, body json.RawMessage) (any, *Error) {
	var req calorieRequest
	if apiErr := decode(body, &req); apiErr != nil {
		return nil, apiErr
	}
	if req.Gender != calc.GenderMale && req.Gender != calc.GenderFemale {
		return nil, enumError("gender", []string{calc.GenderMale, calc.GenderFemale})
	}
	if req.ActivityLevel == "" {
		req.ActivityLevel = "sedentary"
	}
	if _, ok := calc.ActivityMultipliers[req.ActivityLevel]; !ok {
		return nil, enumError("activityLevel", sortedKeys(calc.ActivityMultipliers))
	}
	if req.Goal == "" {
		req.Goal = "maintain"
	}
	if _, ok := calc.GoalAdjustments[req.Goal]; !ok {
		return nil, enumError("goal", sortedKeys(calc.GoalAdjustments))
	}

	res := calc.Calorie(*req.Weight, *req.Height, *req.Age, req.Gender, req.ActivityLevel, req.Goal)
	meals := make([]mealResponse, 0, len(res.MealsBreakdown))
	for _, m := range res.MealsBreakdown {
		meals = append(meals, mealResponse{Name: m.Name, Calories: m.Calories})
	}
	return calorieResponse{
		BMR:            res.BMR,
		TDEE:           res.TDEE,
		TargetCalories: res.TargetCalories,
		Macros: macrosResponse{
			ProteinGrams: res.Macros.ProteinGrams,
			CarbsGrams:   res.Macros.CarbsGrams,
			FatGrams:     res.Macros.FatGrams,
		},
		MealsBreakdown: meals,
	}, nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --- Password ---

type passwordRequest struct {
	Length           int   `json:"length" validate:"omitempty,gte=4,lte=128"`
	Uppercase        *bool `json:"uppercase"`
	Lowercase        *bool `json:"lowercase"`
	Digits           *bool `json:"digits"`
	Symbols          *bool `json:"symbols"`
	ExcludeAmbiguous bool  `json:"excludeAmbiguous"`
	Count            int   `json:"count" validate:"omitempty,gte=1,lte=100"`
}

type passwordResponse struct {
	Passwords   []string `json:"passwords"`
	Length      int      `json:"length"`
	CharsetSize int      `json:"charsetSize"`
	Entropy     float64  `json:"entropy"`
	Strength    string   `json:"strength"`
}

func execPassword(_ context.Context, s *CalcService, body json.RawMessage) (any, *Error) {
	var req passwordRequest
	if apiErr := decode(body, &req); apiErr != nil {
		return nil, apiErr
	}
	if req.Length == 0 {
		req.Length = 16
	}
	if req.Count == 0 {
		req.Count = 1
	}
	boolDefault := func(p *bool, def bool) bool {
		if p == nil {
			return def
		}
		return *p
	}
	opts := password.Options{
		Length:           req.Length,
		Uppercase:        boolDefault(req.Uppercase, true),
		Lowercase:        boolDefault(req.Lowercase, true),
		Digits:           boolDefault(req.Digits, true),
		Symbols:          boolDefault(req.Symbols, false),
		ExcludeAmbiguous: req.ExcludeAmbiguous,
	}

	charset, err := password.Charset(opts)
	if err != nil {
		return nil, Errorf("at least one character class must be enabled")
	}

	draws, err := s.random.Uint32s(req.Length * req.Count)
	if err != nil {
		e := ErrInternal
		return nil, &e
	}

	passwords := make([]string, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		passwords = append(passwords, password.Generate(charset, draws[i*req.Length:(i+1)*req.Length]))
	}

	entropy := password.Entropy(len(charset), req.Length)
	return passwordResponse{
		Passwords:   passwords,
		Length:      req.Length,
		CharsetSize: len(charset),
		Entropy:     calc.Round(entropy, 2),
		Strength:    password.Strength(entropy),
	}, nil
}

// --- Random numbers ---

type randomRequest struct {
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
	Count int      `json:"count" validate:"omitempty,gte=1,lte=1000"`
	Type  string   `json:"type"`
}

type randomResponse struct {
	Numbers []float64 `json:"numbers"`
	Sum     float64   `json:"sum"`
	Average float64   `json:"average"`
}

func execRandom(_ context.Context, s *CalcService, body json.RawMessage) (any, *Error) {
	var req randomRequest
	if apiErr := decode(body, &req); apiErr != nil {
		return nil, apiErr
	}
	min, max := 1.0, 100.0
	if req.Min != nil {
		min = *req.Min
	}
	if req.Max != nil {
		max = *req.Max
	}
	if req.Count == 0 {
		req.Count = 1
	}
	if req.Type == "" {
		req.Type = calc.RandomInteger
	}
	if req.Type != calc.RandomInteger && req.Type != calc.RandomFloat {
		return nil, enumError("type", []string{calc.RandomInteger, calc.RandomFloat})
	}
	if min >= max {
		return nil, Errorf("min must be less than max")
	}
	if req.Type == calc.RandomInteger {
		if min != math.Trunc(min) || max != math.Trunc(max) {
			return nil, Errorf("min and max must be whole numbers for integer type")
		}
		// Beyond 2^53 the int64 span math loses exactness
		if math.Abs(min) > 1<<53 || math.Abs(max) > 1<<53 {
			return nil, Errorf("min and max must be between -9007199254740992 and 9007199254740992")
		}
	}

	draws, err := s.random.Uint32s(req.Count)
	if err != nil {
		e := ErrInternal
		return nil, &e
	}

	res := calc.RandomNumbers(draws, min, max, req.Type)
	return randomResponse{Numbers: res.Numbers, Sum: res.Sum, Average: res.Average}, nil
}

// --- Age ---

const dateLayout = "2006-01-02"

type ageRequest struct {
	BirthDate  string `json:"birthDate" validate:"required"`
	TargetDate string `json:"targetDate"`
}

type ageBreakdown struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

type ageResponse struct {
	Age               ageBreakdown `json:"age"`
	TotalDays         int64        `json:"totalDays"`
	TotalWeeks        int64        `json:"totalWeeks"`
	TotalMonths       int64        `json:"totalMonths"`
	TotalHours        int64        `json:"totalHours"`
	NextBirthday      string       `json:"nextBirthday"`
	DaysUntilBirthday int          `json:"daysUntilBirthday"`
	ZodiacSign        string       `json:"zodiacSign"`
	DayOfBirth        string       `json:"dayOfBirth"`
}

func execAge(_ context.Context, s *CalcService, body json.RawMessage) (any, *Error) {
	var req ageRequest
	if apiErr := decode(body, &req); apiErr != nil {
		return nil, apiErr
	}

	birth, err := time.ParseInLocation(dateLayout, req.BirthDate, time.UTC)
	if err != nil {
		return nil, Errorf("birthDate must be a valid date in YYYY-MM-DD format")
	}

	target := s.clock.Now().UTC().Truncate(24 * time.Hour)
	if req.TargetDate != "" {
		target, err = time.ParseInLocation(dateLayout, req.TargetDate, time.UTC)
		if err != nil {
			return nil, Errorf("targetDate must be a valid date in YYYY-MM-DD format")
		}
	}
	if birth.After(target) {
		return nil, Errorf("birthDate must not be after targetDate")
	}

	res := datecalc.Calculate(birth, target)
	return ageResponse{
		Age: ageBreakdown{
			Years:  res.Age.Years,
			Months: res.Age.Months,
			Days:   res.Age.Days,
		},
		TotalDays:         res.TotalDays,
		TotalWeeks:        res.TotalWeeks,
		TotalMonths:       res.TotalMonths,
		TotalHours:        res.TotalHours,
		NextBirthday:      res.NextBirthday.Format(dateLayout),
		DaysUntilBirthday: res.DaysUntilBirthday,
		ZodiacSign:        res.ZodiacSign,
		DayOfBirth:        res.DayOfBirth,
	}, nil
}

// --- AI calculator ---

type aiRequest struct {
	Query string `json:"query" validate:"required,max=1000"`
}

type aiResponse struct {
	Answer      string   `json:"answer"`
	Steps       []string `json:"steps"`
	Explanation string   `json:"explanation"`
	Source      string   `json:"source"`
}

func execAICalculator(ctx context.Context, s *CalcService, body json.RawMessage) (any, *Error) {
	var req aiRequest
	if apiErr := decode(body, &req); apiErr != nil {
		return nil, apiErr
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, Errorf("query are required")
	}

	res, err := s.solver.Solve(ctx, req.Query)
	if err != nil {
		source := res.Source
		if source == "" {
			source = "unknown"
		}
		if s.metrics != nil {
			s.metrics.SolverRequests.WithLabelValues(source, "error").Inc()
		}
		return nil, mapSolverError(err)
	}
	if s.metrics != nil {
		s.metrics.SolverRequests.WithLabelValues(res.Source, "ok").Inc()
	}
	return aiResponse{
		Answer:      res.Answer,
		Steps:       res.Steps,
		Explanation: res.Explanation,
		Source:      res.Source,
	}, nil
}

func mapSolverError(err error) *Error {
	switch {
	case errors.Is(err, solver.ErrNotFinite):
		return AuditedError(400, "expression result is not a finite number")
	case errors.Is(err, solver.ErrGatewayRateLimit), errors.Is(err, solver.ErrGatewayBudget):
		return AuditedError(429, "calculation service is busy, try again shortly")
	case errors.Is(err, solver.ErrGatewayPayment):
		return AuditedError(402, "calculation service quota exhausted")
	default:
		e := ErrInternal
		return &e
	}
}
