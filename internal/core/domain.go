package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	CategoryRevenue    Category = "Receita"
	CategoryFixed      Category = "Fixo"
	CategoryVariable   Category = "Variável"
	CategoryLifestyle  Category = "Diversos"
	CategoryInvestment Category = "Investimento"
)

const (
	PaymentCash       PaymentMethod = "Dinheiro"
	PaymentPix        PaymentMethod = "Pix"
	PaymentCreditCard PaymentMethod = "Cartão de Crédito"
	PaymentDebitCard  PaymentMethod = "Cartão de Débito"
)

// DefaultIcon is used when no voice mapping matches an entry description.
const DefaultIcon = "chart"

type (
	Category      string
	PaymentMethod string

	// Entry is one income or expense record. Amount is a currency-agnostic
	// base-unit value; Date carries no meaningful time-of-day.
	Entry struct {
		ID            string        `json:"id"`
		Description   string        `json:"description"`
		Amount        float64       `json:"amount"`
		Category      Category      `json:"category"`
		PaymentMethod PaymentMethod `json:"paymentMethod"`
		Date          time.Time     `json:"date"`
	}

	// UserProfile is the display identity shown in the UI. Stored
	// independently from entries.
	UserProfile struct {
		Name     string `json:"name"`
		PhotoURL string `json:"photoUrl"`
	}

	// VoiceMapping associates a description with an icon tag for display
	// lookup. Informational only: a missing mapping falls back to DefaultIcon.
	VoiceMapping struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	}
)

var (
	ErrEmptyID          = errors.New("empty id")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidPayment   = errors.New("invalid payment method")
	ErrInvalidDate      = errors.New("invalid date")
)

// Categories returns every category in stable display order.
func Categories() []Category {
	return []Category{CategoryRevenue, CategoryFixed, CategoryVariable, CategoryLifestyle, CategoryInvestment}
}

// ExpenseCategories returns the non-revenue categories in stable order.
func ExpenseCategories() []Category {
	return []Category{CategoryFixed, CategoryVariable, CategoryLifestyle, CategoryInvestment}
}

// PaymentMethods returns every payment method in stable display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCash, PaymentPix, PaymentCreditCard, PaymentDebitCard}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryRevenue, CategoryFixed, CategoryVariable, CategoryLifestyle, CategoryInvestment:
		return true
	default:
		return false
	}
}

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentPix, PaymentCreditCard, PaymentDebitCard:
		return true
	default:
		return false
	}
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if e.Amount < 0 || math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
		return ErrInvalidAmount
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if !e.PaymentMethod.Valid() {
		return ErrInvalidPayment
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// IconFor resolves the icon tag for a description by case-insensitive
// substring match against the saved voice mappings.
func IconFor(description string, voices []VoiceMapping) string {
	lower := strings.ToLower(description)
	for _, v := range voices {
		if v.Description == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(v.Description)) {
			return v.Icon
		}
	}
	return DefaultIcon
}

// DefaultProfile is the profile shown before the user customizes it.
func DefaultProfile() UserProfile {
	return UserProfile{
		Name:     "Gestor Zen",
		PhotoURL: "https://cdn-icons-png.flaticon.com/512/2617/2617304.png",
	}
}

// DefaultVoices seeds the voice-to-icon mappings on first run.
func DefaultVoices() []VoiceMapping {
	return []VoiceMapping{
		{Description: "Aluguel", Icon: "home"},
		{Description: "Supermercado", Icon: "cart"},
		{Description: "Salário", Icon: "cash"},
		{Description: "Lazer", Icon: "leisure"},
	}
}
