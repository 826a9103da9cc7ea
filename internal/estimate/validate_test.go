package estimate

import "testing"

func TestValidateForm_Valid(t *testing.T) {
	req := Request{
		Region:            "Kumasi-Tamale",
		TotalFloorArea:    "2000",
		AreaUnit:          "sqft",
		NumberOfBathrooms: "2",
		NumberOfFloors:    "1",
	}
	if details := ValidateForm(req); len(details) != 0 {
		t.Fatalf("expected no details, got %v", details)
	}
}

func TestValidateForm_SquareMeterBounds(t *testing.T) {
	req := Request{Region: "accra", TotalFloorArea: "200", NumberOfBathrooms: "2", NumberOfFloors: "2"}
	if details := ValidateForm(req); len(details) != 0 {
		t.Fatalf("200 sqm should be within bounds, got %v", details)
	}

	req.TotalFloorArea = "1000"
	if details := ValidateForm(req); len(details) != 1 {
		t.Fatalf("1000 sqm should exceed the form bound, got %v", details)
	}
}

func TestValidateForm_CollectsEveryProblem(t *testing.T) {
	req := Request{
		Region:            "A1",
		TotalFloorArea:    "499",
		AreaUnit:          "sqft",
		NumberOfBathrooms: "11",
		NumberOfFloors:    "0",
	}
	details := ValidateForm(req)
	if len(details) != 4 {
		t.Fatalf("expected 4 details, got %d: %v", len(details), details)
	}
}

func TestValidateForm_FractionalSquareFeet(t *testing.T) {
	req := Request{Region: "accra", TotalFloorArea: "1500.5", AreaUnit: "square-feet", NumberOfBathrooms: "1", NumberOfFloors: "1"}
	if details := ValidateForm(req); len(details) != 1 {
		t.Fatalf("expected area detail, got %v", details)
	}
}
