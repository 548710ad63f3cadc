package ledger

import "github.com/shopspring/decimal"

// Charge is a purchase item joined with the payer of its purchase.
type Charge struct {
	PurchaseID   string
	ProjectID    string
	PayerID      string
	Total        decimal.Decimal
	Contributors []string
}

// Records is the set of ledger rows visible to a viewer for one scope.
type Records struct {
	// Authorized is false when the viewer asked for a project they are not
	// an active participant of. Charges and Payments are empty in that case.
	Authorized bool
	Charges    []Charge
	Payments   []Payment
}

// ResolveScope selects the rows of snap that viewerID may see.
//
// With a projectID, the viewer must be an active participant of that project;
// otherwise an unauthorized, empty Records is returned. An authorized viewer
// sees every row of the project, including rows of participants who have
// since left.
//
// Without a projectID, the result is the union of all projects the viewer is
// currently active in.
func ResolveScope(snap *Snapshot, viewerID, projectID string) Records {
	if snap == nil {
		return Records{Authorized: projectID == ""}
	}

	visible := snap.activeProjects(viewerID)
	if projectID != "" {
		if !visible[projectID] {
			return Records{}
		}
		visible = map[string]bool{projectID: true}
	}

	recs := Records{Authorized: true}
	for _, purchase := range snap.Purchases {
		if !visible[purchase.ProjectID] {
			continue
		}
		for _, item := range purchase.Items {
			recs.Charges = append(recs.Charges, Charge{
				PurchaseID:   purchase.ID,
				ProjectID:    purchase.ProjectID,
				PayerID:      purchase.PayerID,
				Total:        item.Total(),
				Contributors: item.Contributors,
			})
		}
	}
	for _, payment := range snap.Payments {
		if visible[payment.ProjectID] {
			recs.Payments = append(recs.Payments, payment)
		}
	}
	return recs
}
