package service

import (
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:        u.ID,
		Name:      u.Name,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

func toAPIProject(p *models.Project) *api.Project {
	participants := make([]*api.Participant, len(p.Participants))
	for i, part := range p.Participants {
		participants[i] = &api.Participant{
			UserID:   part.UserID,
			Name:     part.Name,
			Active:   part.Active,
			JoinedAt: part.JoinedAt,
		}
	}
	return &api.Project{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt,
		Participants: participants,
	}
}

func toAPIPurchase(p *models.Purchase) *api.Purchase {
	items := make([]*api.Item, len(p.Items))
	for i, item := range p.Items {
		contributors := item.Contributors
		if contributors == nil {
			contributors = []string{}
		}
		items[i] = &api.Item{
			ID:             item.ID,
			Name:           item.Name,
			Price:          item.Price,
			Quantity:       item.Quantity,
			Discount:       item.Discount,
			ContributorIDs: contributors,
			Total:          item.Total(),
		}
	}
	return &api.Purchase{
		ID:          p.ID,
		ProjectID:   p.ProjectID,
		PayerID:     p.PayerID,
		CreatorID:   p.CreatorID,
		Name:        p.Name,
		PurchasedOn: p.PurchasedOn,
		Items:       items,
		Total:       p.Total(),
		CreatedAt:   p.CreatedAt,
	}
}

func fromAPIItems(items []*api.Item) []models.Item {
	out := make([]models.Item, len(items))
	for i, item := range items {
		out[i] = models.Item{
			Name:         item.Name,
			Price:        item.Price,
			Quantity:     item.Quantity,
			Discount:     item.Discount,
			Contributors: dedupe(item.ContributorIDs),
		}
	}
	return out
}

func toAPIPayment(p *models.Payment) *api.Payment {
	return &api.Payment{
		ID:         p.ID,
		ProjectID:  p.ProjectID,
		PayerID:    p.PayerID,
		ReceiverID: p.ReceiverID,
		Amount:     p.Amount,
		CreatedBy:  p.CreatedBy,
		Note:       p.Note,
		PaidOn:     p.PaidOn,
		CreatedAt:  p.CreatedAt,
	}
}

func toAPITransactions(txs []ledger.Transaction) []*api.Transaction {
	out := make([]*api.Transaction, len(txs))
	for i, tx := range txs {
		out[i] = &api.Transaction{
			FromID:   tx.FromID,
			FromName: tx.FromName,
			ToID:     tx.ToID,
			ToName:   tx.ToName,
			Amount:   tx.Amount,
		}
	}
	return out
}

func toAPIStats(stats ledger.Stats) *api.GetProjectStatsResponse {
	byPayer := make([]*api.PayerSpending, len(stats.ByPayer))
	for i, p := range stats.ByPayer {
		byPayer[i] = &api.PayerSpending{
			UserID: p.UserID,
			Name:   p.Name,
			Amount: p.Amount.Round(2),
		}
	}
	return &api.GetProjectStatsResponse{
		TotalSpending: stats.Total.Round(2),
		ByPayer:       byPayer,
	}
}

// dedupe drops repeated ids, keeping first occurrences in order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
