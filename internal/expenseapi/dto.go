package expenseapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"expenseboard/internal/core"
)

// flexString accepts ids sent either as JSON strings or numbers.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*s = flexString(n.String())
	return nil
}

// flexAmount accepts decimal amounts sent as JSON numbers or numeric strings.
type flexAmount struct {
	core.Money
	set bool
}

func (a *flexAmount) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	}
	m, err := core.ParseAmount(raw)
	if err != nil {
		return err
	}
	a.Money = m
	a.set = true
	return nil
}

type categoryDTO struct {
	ID   flexString `json:"id"`
	Name string     `json:"name"`
}

type expenseDTO struct {
	ID          flexString  `json:"id"`
	Name        string      `json:"name"`
	Amount      *flexAmount `json:"amount"`
	Description string      `json:"description"`
	CreatedAt   string      `json:"created_at"`
	Category    categoryDTO `json:"category"`
}

type pagingDTO struct {
	Page            int  `json:"page"`
	Limit           int  `json:"limit"`
	ItemCount       int  `json:"itemCount"`
	PageCount       int  `json:"pageCount"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	HasNextPage     bool `json:"hasNextPage"`
}

type listResponse struct {
	Data   []expenseDTO `json:"data"`
	Paging *pagingDTO   `json:"paging"`
}

type totalResponse struct {
	Total *flexAmount `json:"total"`
}

func (d expenseDTO) toDomain() (core.Expense, error) {
	if d.ID == "" {
		return core.Expense{}, core.ErrEmptyID
	}
	if d.Amount == nil || !d.Amount.set {
		return core.Expense{}, fmt.Errorf("expense %s: missing amount", d.ID)
	}

	var createdAt time.Time
	if d.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339Nano, d.CreatedAt)
		if err != nil {
			return core.Expense{}, fmt.Errorf("expense %s: created_at: %w", d.ID, err)
		}
		createdAt = t
	}

	return core.Expense{
		ID:          string(d.ID),
		Name:        d.Name,
		Amount:      d.Amount.Money,
		CreatedAt:   createdAt,
		Description: d.Description,
		Category:    core.Category{ID: string(d.Category.ID), Name: d.Category.Name},
	}, nil
}

func (p pagingDTO) toDomain() core.Paging {
	return core.Paging{
		Page:            p.Page,
		Limit:           p.Limit,
		ItemCount:       p.ItemCount,
		PageCount:       p.PageCount,
		HasPreviousPage: p.HasPreviousPage,
		HasNextPage:     p.HasNextPage,
	}
}
