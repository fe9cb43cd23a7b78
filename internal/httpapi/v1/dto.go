package v1

import (
    "time"

    "github.com/google/uuid"

    "costbook/internal/books"
    "costbook/internal/service/project"
)

type postProjectRequest struct {
    UserID           uuid.UUID         `json:"user_id"`
    Name             string            `json:"name"`
    Currency         string            `json:"currency"`
    TotalBudgetMinor int64             `json:"total_budget_minor"`
    Metadata         map[string]string `json:"metadata,omitempty"`
}

type projectResponse struct {
    ID               uuid.UUID         `json:"id"`
    UserID           uuid.UUID         `json:"user_id"`
    Name             string            `json:"name"`
    Currency         string            `json:"currency"`
    TotalBudgetMinor int64             `json:"total_budget_minor"`
    OwnerPaidMinor   int64             `json:"owner_paid_minor"`
    ExpensesTotal    string            `json:"expenses_total,omitempty"`
    Metadata         map[string]string `json:"metadata,omitempty"`
}

func toProjectResponse(p books.Project) projectResponse {
    budgetMinor, _ := p.TotalBudget.MinorUnits()
    paidMinor, _ := p.OwnerPaid.MinorUnits()
    return projectResponse{
        ID:               p.ID,
        UserID:           p.UserID,
        Name:             p.Name,
        Currency:         p.Currency,
        TotalBudgetMinor: budgetMinor,
        OwnerPaidMinor:   paidMinor,
        Metadata:         p.Metadata,
    }
}

func toSummaryResponse(s project.Summary) projectResponse {
    resp := toProjectResponse(s.Project)
    resp.ExpensesTotal = s.ExpensesTotal.String()
    return resp
}

type postPaymentRequest struct {
    UserID      uuid.UUID `json:"user_id"`
    ProjectID   uuid.UUID `json:"project_id"`
    Date        time.Time `json:"date"`
    AmountMinor int64     `json:"amount_minor"`
    Description string    `json:"description,omitempty"`
}

type updatePaymentRequest struct {
    Date        time.Time `json:"date"`
    AmountMinor int64     `json:"amount_minor"`
    Description string    `json:"description,omitempty"`
}

type paymentResponse struct {
    ID          uuid.UUID `json:"id"`
    UserID      uuid.UUID `json:"user_id"`
    ProjectID   uuid.UUID `json:"project_id"`
    Date        time.Time `json:"date"`
    AmountMinor int64     `json:"amount_minor"`
    Description string    `json:"description,omitempty"`
}

func toPaymentResponse(p books.Payment) paymentResponse {
    minor, _ := p.Amount.MinorUnits()
    return paymentResponse{
        ID:          p.ID,
        UserID:      p.UserID,
        ProjectID:   p.ProjectID,
        Date:        p.Date,
        AmountMinor: minor,
        Description: p.Description,
    }
}

type paymentSumResponse struct {
    ProjectID  uuid.UUID `json:"project_id"`
    Currency   string    `json:"currency"`
    TotalMinor int64     `json:"total_minor"`
}

type saveDayItem struct {
    Category books.Category `json:"category"`
    ItemName string         `json:"item_name"`
    Price    string         `json:"price"`
    Count    string         `json:"count"`
    Other    string         `json:"other"`
}

type saveDayRequest struct {
    UserID uuid.UUID     `json:"user_id"`
    Date   string        `json:"date"`
    Items  []saveDayItem `json:"items"`
}

type lineItemResponse struct {
    Category     books.Category `json:"category"`
    CategoryCode string         `json:"category_code"`
    ItemName     string         `json:"item_name"`
    Price        string         `json:"price"`
    Count        string         `json:"count"`
    Other        string         `json:"other"`
    Total        string         `json:"total"`
}

func toLineItemResponse(it books.LineItem) lineItemResponse {
    return lineItemResponse{
        Category:     it.Category,
        CategoryCode: it.Category.Code(),
        ItemName:     it.ItemName,
        Price:        it.Price,
        Count:        it.Count,
        Other:        it.Other,
        Total:        it.Total.String(),
    }
}

type expenseResponse struct {
    ID        uuid.UUID      `json:"id"`
    UserID    uuid.UUID      `json:"user_id"`
    ProjectID uuid.UUID      `json:"project_id"`
    Date      time.Time      `json:"date"`
    Category  books.Category `json:"category"`
    ItemName  string         `json:"item_name"`
    Price     string         `json:"price"`
    Count     string         `json:"count"`
    Other     string         `json:"other"`
    Total     string         `json:"total"`
}

func toExpenseResponse(e books.Expense) expenseResponse {
    return expenseResponse{
        ID:        e.ID,
        UserID:    e.UserID,
        ProjectID: e.ProjectID,
        Date:      e.Date,
        Category:  e.Category,
        ItemName:  e.ItemName,
        Price:     e.Price,
        Count:     e.Count,
        Other:     e.Other,
        Total:     e.Total.String(),
    }
}

type updateBudgetRequest struct {
    TotalBudgetMinor *int64 `json:"total_budget_minor"`
}
