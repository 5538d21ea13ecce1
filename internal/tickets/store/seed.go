package store

import "time"

// SeedTickets returns the demo dataset used as a secondary source when the
// primary store has no tickets for a company. The list is rebuilt per call so
// callers never share backing slices.
func SeedTickets() []Ticket {
	base := time.Date(2026, time.January, 12, 9, 30, 0, 0, time.UTC)

	return []Ticket{
		{
			ID:          "seed-1001",
			Title:       "Checkout page crashes on payment step",
			Description: "Customers report a white screen after entering card details.",
			Company:     "Nike",
			Status:      StatusOpen,
			CreatedAt:   base,
			UserEmail:   "nike@example.com",
			History: []HistoryEntry{
				{
					ID:        "seed-1001-h1",
					Action:    ActionCreated,
					Status:    StatusOpen,
					Timestamp: base,
					User:      "nike@example.com",
				},
			},
		},
		{
			ID:          "seed-1002",
			Title:       "Order export missing line items",
			Description: "CSV export from the order dashboard omits bundle items.",
			Company:     "Nike",
			Status:      StatusInProgress,
			CreatedAt:   base.Add(26 * time.Hour),
			UserEmail:   "nike@example.com",
			History: []HistoryEntry{
				{
					ID:        "seed-1002-h1",
					Action:    ActionCreated,
					Status:    StatusOpen,
					Timestamp: base.Add(26 * time.Hour),
					User:      "nike@example.com",
				},
				{
					ID:        "seed-1002-h2",
					Action:    ActionStatusChanged,
					Status:    StatusInProgress,
					Timestamp: base.Add(30 * time.Hour),
					User:      "admin",
					Comment:   "Reproduced, assigned to the integrations team.",
				},
			},
		},
		{
			ID:          "seed-2001",
			Title:       "Inventory sync delayed",
			Description: "Stock levels lag roughly two hours behind the warehouse feed.",
			Company:     "Adidas",
			Status:      StatusOpen,
			CreatedAt:   base.Add(48 * time.Hour),
			UserEmail:   "adidas@example.com",
			History: []HistoryEntry{
				{
					ID:        "seed-2001-h1",
					Action:    ActionCreated,
					Status:    StatusOpen,
					Timestamp: base.Add(48 * time.Hour),
					User:      "adidas@example.com",
				},
			},
		},
		{
			ID:          "seed-2002",
			Title:       "Returns portal login loop",
			Description: "Users get bounced back to the sign-in page after authenticating.",
			Company:     "Adidas",
			Status:      StatusDone,
			CreatedAt:   base.Add(72 * time.Hour),
			UserEmail:   "adidas@example.com",
			History: []HistoryEntry{
				{
					ID:        "seed-2002-h1",
					Action:    ActionCreated,
					Status:    StatusOpen,
					Timestamp: base.Add(72 * time.Hour),
					User:      "adidas@example.com",
				},
				{
					ID:        "seed-2002-h2",
					Action:    ActionStatusChanged,
					Status:    StatusDone,
					Timestamp: base.Add(96 * time.Hour),
					User:      "admin",
					Comment:   "Cookie domain fixed, verified with the reporter.",
				},
			},
		},
	}
}
