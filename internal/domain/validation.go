package domain

import "fmt"

var validGrades = map[Grade]struct{}{
	GradeHG: {}, GradeRG: {}, GradeMG: {}, GradePG: {},
}

var validCategories = map[Category]struct{}{
	CategoryModelKits: {}, CategoryTools: {}, CategoryPaint: {}, CategoryAccessories: {},
}

func ParseGrade(v string) (Grade, error) {
	g := Grade(v)
	if _, ok := validGrades[g]; !ok {
		return "", fmt.Errorf("%w: unknown grade %q", ErrInvalidInput, v)
	}
	return g, nil
}

func ParseCategory(v string) (Category, error) {
	c := Category(v)
	if _, ok := validCategories[c]; !ok {
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalidInput, v)
	}
	return c, nil
}

func ValidateQuantity(quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be >= 1, got %d", ErrInvalidInput, quantity)
	}
	return nil
}

func (p Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: product name is required", ErrInvalidInput)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: product price must be non-negative", ErrInvalidInput)
	}
	if _, ok := validCategories[p.Category]; !ok {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, p.Category)
	}
	if p.Grade != nil {
		if _, ok := validGrades[*p.Grade]; !ok {
			return fmt.Errorf("%w: unknown grade %q", ErrInvalidInput, *p.Grade)
		}
	}
	return nil
}
