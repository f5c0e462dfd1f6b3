package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tomasvera/debtwise/internal/models"
	"github.com/tomasvera/debtwise/internal/notify"
	"github.com/tomasvera/debtwise/internal/payoff"
	"github.com/tomasvera/debtwise/internal/reminders"
	"github.com/tomasvera/debtwise/internal/store"
	"github.com/tomasvera/debtwise/internal/utils"
)

// Service handles business logic over the snapshot store. It is the
// input boundary: numeric inputs are validated here, so the payoff
// calculator downstream can assume clean values.
type Service struct {
	store      *store.Store
	dispatcher *notify.Dispatcher
	log        *logrus.Logger
	now        func() time.Time
}

// NewService initializes a new service
func NewService(st *store.Store, dispatcher *notify.Dispatcher, log *logrus.Logger) *Service {
	return &Service{
		store:      st,
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
	}
}

// DebtInput carries the user-supplied fields of a debt
type DebtInput struct {
	Name          string   `json:"name"`
	InitialAmount float64  `json:"initial_amount"`
	CurrentAmount float64  `json:"current_amount"`
	MinPayment    float64  `json:"min_payment"`
	InterestRate  *float64 `json:"interest_rate,omitempty"`
	DueDay        *int     `json:"due_day,omitempty"`
	Color         string   `json:"color,omitempty"`
}

// PaymentInput carries the user-supplied fields of a payment
type PaymentInput struct {
	DebtID     string  `json:"debt_id"`
	Amount     float64 `json:"amount"`
	RecordedBy string  `json:"recorded_by"`
}

// ExpenseInput carries the user-supplied fields of a recurring expense
type ExpenseInput struct {
	Name      string           `json:"name"`
	Amount    float64          `json:"amount"`
	Category  string           `json:"category"`
	Frequency models.Frequency `json:"frequency,omitempty"`
	DueDay    int              `json:"due_day"`
}

// IncomeInput carries the user-supplied fields of an income source
type IncomeInput struct {
	Source string  `json:"source"`
	Amount float64 `json:"amount"`
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func (in DebtInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("debt name is required")
	}
	if !validAmount(in.InitialAmount) || !validAmount(in.CurrentAmount) || !validAmount(in.MinPayment) {
		return fmt.Errorf("amounts must be non-negative numbers")
	}
	if in.InterestRate != nil && !validAmount(*in.InterestRate) {
		return fmt.Errorf("interest rate must be a non-negative number")
	}
	if in.DueDay != nil && (*in.DueDay < 1 || *in.DueDay > 31) {
		return fmt.Errorf("due day must be between 1 and 31")
	}
	return nil
}

func (in ExpenseInput) validate() error {
	if in.Name == "" {
		return fmt.Errorf("expense name is required")
	}
	if !validAmount(in.Amount) {
		return fmt.Errorf("amount must be a non-negative number")
	}
	switch in.Frequency {
	case "", models.FrequencyMonthly, models.FrequencyBiweekly:
		if in.DueDay < 1 || in.DueDay > 31 {
			return fmt.Errorf("due day must be between 1 and 31")
		}
	case models.FrequencyWeekly:
		if in.DueDay < 0 || in.DueDay > 6 {
			return fmt.Errorf("due day must be a weekday between 0 (Sunday) and 6 (Saturday)")
		}
	default:
		return fmt.Errorf("unknown frequency %q", in.Frequency)
	}
	return nil
}

// AddDebt creates a new tracked debt and announces it
func (s *Service) AddDebt(ctx context.Context, input DebtInput) (models.Debt, error) {
	if err := input.validate(); err != nil {
		return models.Debt{}, err
	}
	id, err := utils.NewID()
	if err != nil {
		return models.Debt{}, err
	}

	debt := models.Debt{
		ID:            id,
		Name:          input.Name,
		InitialAmount: input.InitialAmount,
		CurrentAmount: input.CurrentAmount,
		MinPayment:    input.MinPayment,
		InterestRate:  input.InterestRate,
		DueDay:        input.DueDay,
		Color:         input.Color,
	}

	_, err = s.store.Update(ctx, func(state models.FinancialState) models.FinancialState {
		state.Debts = append(state.Debts, debt)
		return state
	})
	if err != nil {
		return models.Debt{}, err
	}

	s.log.Infof("Debt added: %s (%s)", debt.Name, debt.ID)
	s.dispatcher.DebtAdded(debt)
	return debt, nil
}

// UpdateDebt replaces the user-editable fields of an existing debt
func (s *Service) UpdateDebt(ctx context.Context, id string, input DebtInput) (models.Debt, error) {
	if err := input.validate(); err != nil {
		return models.Debt{}, err
	}

	var updated models.Debt
	found := false
	_, err := s.store.Update(ctx, func(state models.FinancialState) models.FinancialState {
		for i, d := range state.Debts {
			if d.ID != id {
				continue
			}
			d.Name = input.Name
			d.InitialAmount = input.InitialAmount
			d.CurrentAmount = input.CurrentAmount
			d.MinPayment = input.MinPayment
			d.InterestRate = input.InterestRate
			d.DueDay = input.DueDay
			d.Color = input.Color
			state.Debts[i] = d
			updated = d
			found = true
			break
		}
		return state
	})
	if err != nil {
		return models.Debt{}, err
	}
	if !found {
		return models.Debt{}, fmt.Errorf("debt %s not found", id)
	}

	s.log.Infof("Debt updated: %s", id)
	return updated, nil
}

// DeleteDebt removes a debt. The payment log is append-only and keeps
// payments that referenced the deleted debt.
func (s *Service) DeleteDebt(ctx context.Context, id string) error {
	found := false
	_, err := s.store.Update(ctx, func(state models.FinancialState) models.FinancialState {
		debts := make([]models.Debt, 0, len(state.Debts))
		for _, d := range state.Debts {
			if d.ID == id {
				found = true
				continue
			}
			debts = append(debts, d)
		}
		state.Debts = debts
		return state
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("debt %s not found", id)
	}

	s.log.Infof("Debt deleted: %s", id)
	return nil
}

// RecordPayment appends a payment to the log, reduces the debt balance
// (never below zero), appends a history point, and announces the payment
func (s *Service) RecordPayment(ctx context.Context, input PaymentInput) (models.Payment, error) {
	if math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) || input.Amount <= 0 {
		return models.Payment{}, fmt.Errorf("payment amount must be positive")
	}
	id, err := utils.NewID()
	if err != nil {
		return models.Payment{}, err
	}

	payment := models.Payment{
		ID:         id,
		DebtID:     input.DebtID,
		Amount:     input.Amount,
		Date:       s.now(),
		RecordedBy: input.RecordedBy,
	}

	var debt models.Debt
	found := false
	_, err = s.store.Update(ctx, func(state models.FinancialState) models.FinancialState {
		for i, d := range state.Debts {
			if d.ID != input.DebtID {
				continue
			}
			d.CurrentAmount = math.Max(0, d.CurrentAmount-payment.Amount)
			state.Debts[i] = d
			debt = d
			found = true
			break
		}
		if !found {
			return state
		}
		state.Payments = append(state.Payments, payment)
		state.History = append(state.History, models.HistoryPoint{
			Date:      payment.Date,
			TotalDebt: state.TotalDebt(),
		})
		return state
	})
	if err != nil {
		return models.Payment{}, err
	}
	if !found {
		return models.Payment{}, fmt.Errorf("debt %s not found", input.DebtID)
	}

	s.log.Infof("Payment recorded: $%.2f toward %s", payment.Amount, debt.Name)
	s.dispatcher.PaymentRecorded(payment, debt)
	return payment, nil
}

// AddExpense creates a new recurring expense
func (s *Service) AddExpense(ctx context.Context, input ExpenseInput) (models.Expense, error) {
	if err := input.validate(); err != nil {
		return models.Expense{}, err
	}
	id, err := utils.NewID()
	if err != nil {
		return models.Expense{}, err
	}

	expense := models.Expense{
		ID:        id,
		Name:      input.Name,
		Amount:    input.Amount,
		Category:  input.Category,
		Frequency: input.Frequency,
		DueDay:    input.DueDay,
	}

	_, err = s.store.Update(ctx, func(state models.FinancialState) models.FinancialState {
		state.Expenses = append(state.Expenses, expense)
		return state
	})
	if err != nil {
		return models.Expense{}, err
	}

	s.log.Infof("Expense added: %s (%s)", expense.Name, expense.ID)
	return expense, nil
}

// DeleteExpense removes a recurring expense
func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	found := false
	_, err := s.store.Update(ctx, func(state models.FinancialState) models.FinancialState {
		expenses := make([]models.Expense, 0, len(state.Expenses))
		for _, e := range state.Expenses {
			if e.ID == id {
				found = true
				continue
			}
			expenses = append(expenses, e)
		}
		state.Expenses = expenses
		return state
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("expense %s not found", id)
	}

	s.log.Infof("Expense deleted: %s", id)
	return nil
}

// AddIncome creates a new income source
func (s *Service) AddIncome(ctx context.Context, input IncomeInput) (models.Income, error) {
	if input.Source == "" {
		return models.Income{}, fmt.Errorf("income source is required")
	}
	if !validAmount(input.Amount) {
		return models.Income{}, fmt.Errorf("amount must be a non-negative number")
	}
	id, err := utils.NewID()
	if err != nil {
		return models.Income{}, err
	}

	income := models.Income{ID: id, Source: input.Source, Amount: input.Amount}
	_, err = s.store.Update(ctx, func(state models.FinancialState) models.FinancialState {
		state.Incomes = append(state.Incomes, income)
		return state
	})
	if err != nil {
		return models.Income{}, err
	}

	s.log.Infof("Income added: %s (%s)", income.Source, income.ID)
	return income, nil
}

// State returns a copy of the current snapshot
func (s *Service) State() models.FinancialState {
	return s.store.View()
}

// Projections returns payoff results for all debts, sorted ascending by
// horizon with unpayable debts last
func (s *Service) Projections() []payoff.Result {
	return payoff.Rank(s.store.View().Debts)
}

// Reminders evaluates the active reminder set for the current date
func (s *Service) Reminders() []models.ReminderItem {
	return reminders.Evaluate(s.store.View(), s.now())
}

// MarkPresent records a foreground heartbeat for alert suppression
func (s *Service) MarkPresent() {
	s.dispatcher.MarkPresent()
}
