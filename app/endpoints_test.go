package app_test

import (
	"strings"
	"testing"

	"github.com/calcstack/calcd/adapters/random"
	"github.com/calcstack/calcd/app"
)

func TestLoanScenario(t *testing.T) {
	fx := newFixture(t, nil, nil)

	resp, body := handleJSON(t, fx.svc, "loan",
		`{"principal":20000,"annualRate":6,"termMonths":60,"downPayment":2000}`)
	if resp.Status != 200 {
		t.Fatalf("status = %d, want 200", resp.Status)
	}
	// 18000 at 0.5%/month over 60 months
	if body["monthlyPayment"] != 347.99 {
		t.Errorf("monthlyPayment = %v, want 347.99", body["monthlyPayment"])
	}
	if body["loanAmount"] != 18000.0 {
		t.Errorf("loanAmount = %v, want 18000", body["loanAmount"])
	}
}

func TestLoanDownPaymentExceedsPrincipal(t *testing.T) {
	fx := newFixture(t, nil, nil)

	resp, body := handleJSON(t, fx.svc, "loan",
		`{"principal":1000,"annualRate":5,"termMonths":12,"downPayment":1000}`)
	if resp.Status != 400 {
		t.Fatalf("status = %d, want 400", resp.Status)
	}
	if body["error"] != "downPayment must be less than principal" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestMortgageRequiredFields(t *testing.T) {
	fx := newFixture(t, nil, nil)

	resp, body := handleJSON(t, fx.svc, "mortgage", `{"homePrice":300000}`)
	if resp.Status != 400 {
		t.Fatalf("status = %d, want 400", resp.Status)
	}
	if body["error"] != "annualRate, loanTermYears are required" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestPercentageUnknownOperation(t *testing.T) {
	fx := newFixture(t, nil, nil)

	resp, body := handleJSON(t, fx.svc, "percentage",
		`{"operation":"divide","value1":10,"value2":5}`)
	if resp.Status != 400 {
		t.Fatalf("status = %d, want 400", resp.Status)
	}
	msg, _ := body["error"].(string)
	for _, op := range []string{"percentOf", "whatPercent", "increase", "decrease", "difference"} {
		if !strings.Contains(msg, op) {
			t.Errorf("error %q missing option %q", msg, op)
		}
	}
}

func TestPercentageScenario(t *testing.T) {
	fx := newFixture(t, nil, nil)

	resp, body := handleJSON(t, fx.svc, "percentage",
		`{"operation":"percentOf","value1":15,"value2":250}`)
	if resp.Status != 200 {
		t.Fatalf("status = %d, want 200", resp.Status)
	}
	if body["result"] != 37.5 {
		t.Errorf("result = %v, want 37.5", body["result"])
	}
}

func TestPercentageDivisionByZero(t *testing.T) {
	fx := newFixture(t, nil, nil)

	resp, _ := handleJSON(t, fx.svc, "percentage",
		`{"operation":"whatPercent","value1":10,"value2":0}`)
	if resp.Status != 400 {
		t.Fatalf("status = %d, want 400", resp.Status)
	}
	// Got past validation into arithmetic, so it is audited
	if n := len(fx.audit.all()); n != 1 {
		t.Errorf("audit records = %d, want 1", n)
	}
}

func TestNonFiniteResultsRejected(t *testing.T) {
	// Valid-looking JSON whose arithmetic overflows float64 must come
	// back as a 400, never a 200 wrapping an unencodable Inf.
	tests := []struct {
		api  string
		body string
	}{
		{"bmi", `{"weight":1e308,"height":1e-100}`},
		{"discount", `{"originalPrice":1e308,"discountPercent":0,"taxPercent":100}`},
		{"tip", `{"billAmount":1e308,"tipPercent":0}`},
		{"convert", `{"value":1e308,"from":"kilometer","to":"millimeter","category":"length"}`},
	}

	for _, tt := range tests {
		fx := newFixture(t, nil, nil)

		resp, body := handleJSON(t, fx.svc, tt.api, tt.body)
		if resp.Status != 400 {
			t.Errorf("%s: status = %d, want 400", tt.api, resp.Status)
		}
		if msg, _ := body["error"].(string); !strings.Contains(msg, "non-finite") {
			t.Errorf("%s: error = %q, want non-finite message", tt.api, msg)
		}
		// The request reached the arithmetic, so it is audited
		if n := len(fx.audit.all()); n != 1 {
			t.Errorf("%s: audit records = %d, want 1", tt.api, n)
		}
	}
}

func TestDiscountOutOfRange(t *testing.T) {
	fx := newFixture(t, nil, nil)

	resp, body := handleJSON(t, fx.svc, "discount",
		`{"originalPrice":100,"discountPercent":150}`)
	if resp.Status != 400 {
		t.Fatalf("status = %d, want 400", resp.Status)
	}
	if body["error"] != "discountPercent must be at most 100" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestTipDefaults(t *testing.T) {
	fx := newFixture(t, nil, nil)

	resp, body := handleJSON(t, fx.svc, "tip", `{"billAmount":100}`)
	if resp.Status != 200 {
		t.Fatalf("status = %d, want 200", resp.Status)
	}
	if body["tipAmount"] != 15.0 {
		t.Errorf("tipAmount = %v, want 15 (default percent)", body["tipAmount"])
	}
	if body["perPerson"] != 115.0 {
		t.Errorf("perPerson = %v, want 115 (default split 1)", body["perPerson"])
	}
	suggestions, _ := body["suggestions"].([]any)
	if len(suggestions) != 4 {
		t.Errorf("suggestions = %d, want 4", len(suggestions))
	}
}

func TestConvertUnknownUnitEnumeratesOptions(t *testing.T) {
	fx := newFixture(t, nil, nil)

	resp, body := handleJSON(t, fx.svc, "convert",
		`{"value":1,"from":"furlong","to":"meter","category":"length"}`)
	if resp.Status != 400 {
		t.Fatalf("status = %d, want 400", resp.Status)
	}
	msg, _ := body["error"].(string)
	if !strings.HasPrefix(msg, "from must be one of:") || !strings.Contains(msg, "kilometer") {
		t.Errorf("error = %q", msg)
	}
}

func TestConvertTemperatureScenario(t *testing.T) {
	fx := newFixture(t, nil, nil)

	resp, body := handleJSON(t, fx.svc, "convert",
		`{"value":0,"from":"celsius","to":"fahrenheit","category":"temperature"}`)
	if resp.Status != 200 {
		t.Fatalf("status = %d, want 200", resp.Status)
	}
	output, _ := body["output"].(map[string]any)
	if output["value"] != 32.0 {
		t.Errorf("value = %v, want 32", output["value"])
	}
}

func TestCalorieUnknownActivityLevel(t *testing.T) {
	fx := newFixture(t, nil, nil)

	resp, body := handleJSON(t, fx.svc, "calorie",
		`{"weight":70,"height":175,"age":30,"gender":"male","activityLevel":"extreme"}`)
	if resp.Status != 400 {
		t.Fatalf("status = %d, want 400", resp.Status)
	}
	msg, _ := body["error"].(string)
	if !strings.Contains(msg, "sedentary") || !strings.Contains(msg, "veryActive") {
		t.Errorf("error = %q", msg)
	}
}

func TestCalorieScenario(t *testing.T) {
	fx := newFixture(t, nil, nil)

	resp, body := handleJSON(t, fx.svc, "calorie",
		`{"weight":70,"height":175,"age":30,"gender":"male"}`)
	if resp.Status != 200 {
		t.Fatalf("status = %d, want 200", resp.Status)
	}
	// Mifflin-St Jeor: 10*70 + 6.25*175 - 5*30 + 5 = 1648.75, rounded
	if body["bmr"] != 1649.0 {
		t.Errorf("bmr = %v, want 1649", body["bmr"])
	}
	meals, _ := body["mealsBreakdown"].([]any)
	if len(meals) != 4 {
		t.Errorf("mealsBreakdown = %d entries, want 4", len(meals))
	}
}

func TestPasswordCharsetRespected(t *testing.T) {
	fx := newFixture(t, nil, nil)

	resp, body := handleJSON(t, fx.svc, "password",
		`{"length":32,"digits":false,"symbols":false,"excludeAmbiguous":true,"count":3}`)
	if resp.Status != 200 {
		t.Fatalf("status = %d, want 200", resp.Status)
	}
	passwords, _ := body["passwords"].([]any)
	if len(passwords) != 3 {
		t.Fatalf("passwords = %d, want 3", len(passwords))
	}
	for _, p := range passwords {
		pw := p.(string)
		if len(pw) != 32 {
			t.Errorf("password length = %d, want 32", len(pw))
		}
		if strings.ContainsAny(pw, "il1Lo0O") {
			t.Errorf("password %q contains ambiguous characters", pw)
		}
		if strings.ContainsAny(pw, "0123456789") {
			t.Errorf("password %q contains digits despite digits=false", pw)
		}
	}
}

func TestPasswordEmptyCharset(t *testing.T) {
	fx := newFixture(t, nil, nil)

	resp, body := handleJSON(t, fx.svc, "password",
		`{"uppercase":false,"lowercase":false,"digits":false,"symbols":false}`)
	if resp.Status != 400 {
		t.Fatalf("status = %d, want 400", resp.Status)
	}
	if body["error"] != "at least one character class must be enabled" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestPasswordLengthOutOfRange(t *testing.T) {
	fx := newFixture(t, nil, nil)

	resp, body := handleJSON(t, fx.svc, "password", `{"length":200}`)
	if resp.Status != 400 {
		t.Fatalf("status = %d, want 400", resp.Status)
	}
	if body["error"] != "length must be at most 128" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestRandomMinNotBelowMax(t *testing.T) {
	fx := newFixture(t, nil, nil)

	resp, body := handleJSON(t, fx.svc, "random", `{"min":10,"max":10}`)
	if resp.Status != 400 {
		t.Fatalf("status = %d, want 400", resp.Status)
	}
	if body["error"] != "min must be less than max" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestRandomIntegerBoundsCapped(t *testing.T) {
	fx := newFixture(t, nil, nil)

	// int64 span math is only exact within ±2^53
	resp, body := handleJSON(t, fx.svc, "random", `{"min":1e19,"max":2e19}`)
	if resp.Status != 400 {
		t.Fatalf("status = %d, want 400", resp.Status)
	}
	if body["error"] != "min and max must be between -9007199254740992 and 9007199254740992" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestRandomIntegersInRange(t *testing.T) {
	fx := newFixture(t, nil, func(d *app.Deps) {
		d.Random = random.NewFake().WithDraws(0, 7, 4294967295, 100, 12345)
	})

	resp, body := handleJSON(t, fx.svc, "random", `{"min":1,"max":6,"count":5}`)
	if resp.Status != 200 {
		t.Fatalf("status = %d, want 200", resp.Status)
	}
	numbers, _ := body["numbers"].([]any)
	if len(numbers) != 5 {
		t.Fatalf("numbers = %d, want 5", len(numbers))
	}
	for _, n := range numbers {
		v := n.(float64)
		if v < 1 || v > 6 || v != float64(int64(v)) {
			t.Errorf("number %v out of [1,6] or not integral", v)
		}
	}
}

func TestAgeScenario(t *testing.T) {
	fx := newFixture(t, nil, nil)

	resp, body := handleJSON(t, fx.svc, "age",
		`{"birthDate":"1990-06-20","targetDate":"2024-08-10"}`)
	if resp.Status != 200 {
		t.Fatalf("status = %d, want 200", resp.Status)
	}
	age, _ := body["age"].(map[string]any)
	if age["years"] != 34.0 || age["months"] != 1.0 || age["days"] != 21.0 {
		t.Errorf("age = %v, want 34y 1m 21d", age)
	}
	if body["zodiacSign"] != "Gemini" {
		t.Errorf("zodiacSign = %v, want Gemini", body["zodiacSign"])
	}
	if body["dayOfBirth"] != "Wednesday" {
		t.Errorf("dayOfBirth = %v, want Wednesday", body["dayOfBirth"])
	}
}

func TestAgeBirthDateInFuture(t *testing.T) {
	fx := newFixture(t, nil, nil)

	// Fixture clock is 2024-06-01
	resp, body := handleJSON(t, fx.svc, "age", `{"birthDate":"2030-01-01"}`)
	if resp.Status != 400 {
		t.Fatalf("status = %d, want 400", resp.Status)
	}
	if body["error"] != "birthDate must not be after targetDate" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestAgeInvalidDate(t *testing.T) {
	fx := newFixture(t, nil, nil)

	resp, body := handleJSON(t, fx.svc, "age", `{"birthDate":"20-06-1990"}`)
	if resp.Status != 400 {
		t.Fatalf("status = %d, want 400", resp.Status)
	}
	if body["error"] != "birthDate must be a valid date in YYYY-MM-DD format" {
		t.Errorf("error = %q", body["error"])
	}
}
