package sheetstore

import (
	"context"

	"github.com/wandersoul78/daybook/internal/models"
)

// Seed data carried over from the hardcoded lists the entry forms shipped
// with before master data moved into the workbook.
var defaultParties = []models.Party{
	{Name: "Devansh", Category: models.CategoryPurchase},
	{Name: "Raj", Category: models.CategoryPurchase},
	{Name: "Bhr", Category: models.CategoryPurchase},
	{Name: "Samyak", Category: models.CategoryPurchase},
	{Name: "Aci", Category: models.CategoryPurchase},
	{Name: "Radha", Category: models.CategorySale},
	{Name: "Pravesh", Category: models.CategorySale},
	{Name: "Rc", Category: models.CategorySale},
	{Name: "Mci", Category: models.CategorySale},
	{Name: "Jawaharji", Category: models.CategorySale},
	{Name: "Munishji", Category: models.CategorySale},
	{Name: "Sanjay", Category: models.CategorySale},
	{Name: "Narayan", Category: models.CategorySale},
	{Name: "Drum", Category: models.CategorySale},
	{Name: "Papa", Category: models.CategoryPayment},
	{Name: "Fact Exp", Category: models.CategoryPayment},
	{Name: "Home Exp", Category: models.CategoryPayment},
	{Name: "Gst", Category: models.CategoryPayment},
	{Name: "Ranjeet", Category: models.CategoryPayment},
	{Name: "Bhure", Category: models.CategoryPayment},
	{Name: "Raja", Category: models.CategoryPayment},
	{Name: "Mukesh", Category: models.CategoryPayment},
	{Name: "Rajender", Category: models.CategoryPayment},
	{Name: "Icici", Category: models.CategoryBank},
}

var defaultItems = []models.Item{
	{Name: "Resin", Category: models.CategoryPurchase},
	{Name: "C1000", Category: models.CategoryPurchase},
	{Name: "C001", Category: models.CategoryPurchase},
	{Name: "Cpw", Category: models.CategoryPurchase},
	{Name: "DOP", Category: models.CategoryPurchase},
	{Name: "Dbp", Category: models.CategoryPurchase},
	{Name: "Tbls", Category: models.CategoryPurchase},
	{Name: "Dblp", Category: models.CategoryPurchase},
	{Name: "Ls", Category: models.CategoryPurchase},
	{Name: "St", Category: models.CategoryPurchase},
	{Name: "Op304", Category: models.CategoryPurchase},
	{Name: "Op318", Category: models.CategoryPurchase},
	{Name: "Lqd", Category: models.CategoryPurchase},
	{Name: "Eva", Category: models.CategoryPurchase},
	{Name: "GST", Category: models.CategoryPurchase},
	{Name: "Tin", Category: models.CategoryPurchase},
	{Name: "Ap25", Category: models.CategorySale},
	{Name: "Ap50", Category: models.CategorySale},
	{Name: "Ap5", Category: models.CategorySale},
	{Name: "1800n", Category: models.CategorySale},
	{Name: "Rbc", Category: models.CategorySale},
	{Name: "RBDbp", Category: models.CategorySale},
	{Name: "Ap84", Category: models.CategorySale},
	{Name: "L10", Category: models.CategorySale},
	{Name: "L10dbp", Category: models.CategorySale},
	{Name: "L20", Category: models.CategorySale},
	{Name: "101n", Category: models.CategorySale},
	{Name: "L2", Category: models.CategorySale},
	{Name: "12dbp", Category: models.CategorySale},
	{Name: "212n", Category: models.CategorySale},
	{Name: "220n", Category: models.CategorySale},
	{Name: "C3", Category: models.CategorySale},
	{Name: "20n", Category: models.CategorySale},
	{Name: "J20", Category: models.CategorySale},
	{Name: "5dop", Category: models.CategorySale},
	{Name: "Dop12", Category: models.CategorySale},
	{Name: "2n", Category: models.CategorySale},
	{Name: "6n", Category: models.CategorySale},
	{Name: "115n", Category: models.CategorySale},
	{Name: "15n", Category: models.CategorySale},
	{Name: "P94", Category: models.CategorySale},
	{Name: "P90", Category: models.CategorySale},
	{Name: "P02", Category: models.CategorySale},
	{Name: "P23", Category: models.CategorySale},
	{Name: "P01", Category: models.CategorySale},
	{Name: "Dt94", Category: models.CategorySale},
	{Name: "Dop-Al", Category: models.CategorySale},
	{Name: "GST", Category: models.CategorySale},
	{Name: "18n", Category: models.CategorySale},
	{Name: "25s", Category: models.CategorySale},
	{Name: "Drm", Category: models.CategorySale},
}

// seedMasterData populates empty Parties/Items sheets with the defaults.
// Sheets that already hold data rows are left untouched.
func (s *Store) seedMasterData(ctx context.Context) error {
	rows, err := s.values(ctx, SheetParties)
	if err != nil {
		return err
	}
	if len(rows) <= 1 {
		seed := make([][]string, len(defaultParties))
		for i, p := range defaultParties {
			seed[i] = p.Row()
		}
		if err := s.grid.Append(ctx, SheetParties, seed); err != nil {
			return err
		}
		s.logger.Info("seeded default parties", "count", len(seed))
	}

	rows, err = s.values(ctx, SheetItems)
	if err != nil {
		return err
	}
	if len(rows) <= 1 {
		seed := make([][]string, len(defaultItems))
		for i, it := range defaultItems {
			seed[i] = it.Row()
		}
		if err := s.grid.Append(ctx, SheetItems, seed); err != nil {
			return err
		}
		s.logger.Info("seeded default items", "count", len(seed))
	}
	return nil
}
