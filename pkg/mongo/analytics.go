package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type StatusBreakdown struct {
	Status  string  `json:"status" bson:"_id"`
	Orders  int     `json:"orders" bson:"orders"`
	Units   int     `json:"units" bson:"units"`
	Revenue float64 `json:"revenue" bson:"revenue"`
}

type ProductSales struct {
	ProductID string  `json:"product_id" bson:"_id"`
	Title     string  `json:"title" bson:"title"`
	Units     int     `json:"units" bson:"units"`
	Revenue   float64 `json:"revenue" bson:"revenue"`
}

type SellerSalesReport struct {
	SellerID     string            `json:"seller_id"`
	ByStatus     []StatusBreakdown `json:"by_status"`
	TopProducts  []ProductSales    `json:"top_products"`
	TotalOrders  int               `json:"total_orders"`
	TotalRevenue float64           `json:"total_revenue"`
}

// GetSellerSalesReport aggregates a seller's order book: volume and revenue
// per lifecycle status plus the best selling listings. Revenue counts
// completed orders only; the per-status rows show the rest of the funnel.
func (s *Store) GetSellerSalesReport(ctx context.Context, sellerID string) (*SellerSalesReport, error) {
	collection := s.orders()

	statusPipeline := bson.A{
		bson.D{{Key: "$match", Value: bson.D{{Key: "sellerId", Value: sellerID}}}},
		bson.D{
			{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$status"},
				{Key: "orders", Value: bson.D{{Key: "$sum", Value: 1}}},
				{Key: "units", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
				{Key: "revenue", Value: bson.D{{Key: "$sum", Value: bson.D{
					{Key: "$multiply", Value: bson.A{"$price", "$quantity"}},
				}}}},
			}},
		},
		bson.D{
			{Key: "$project", Value: bson.D{
				{Key: "orders", Value: 1},
				{Key: "units", Value: 1},
				{Key: "revenue", Value: bson.D{{Key: "$round", Value: bson.A{"$revenue", 2}}}},
			}},
		},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "orders", Value: -1}}}},
	}

	cursor, err := collection.Aggregate(ctx, statusPipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var byStatus []StatusBreakdown
	if err := cursor.All(ctx, &byStatus); err != nil {
		return nil, err
	}

	productPipeline := bson.A{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "sellerId", Value: sellerID},
			{Key: "status", Value: "completed"},
		}}},
		bson.D{
			{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$productId"},
				{Key: "title", Value: bson.D{{Key: "$first", Value: "$title"}}},
				{Key: "units", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
				{Key: "revenue", Value: bson.D{{Key: "$sum", Value: bson.D{
					{Key: "$multiply", Value: bson.A{"$price", "$quantity"}},
				}}}},
			}},
		},
		bson.D{
			{Key: "$project", Value: bson.D{
				{Key: "title", Value: 1},
				{Key: "units", Value: 1},
				{Key: "revenue", Value: bson.D{{Key: "$round", Value: bson.A{"$revenue", 2}}}},
			}},
		},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "revenue", Value: -1}}}},
		bson.D{{Key: "$limit", Value: 10}},
	}

	productsCursor, err := collection.Aggregate(ctx, productPipeline)
	if err != nil {
		return nil, err
	}
	defer productsCursor.Close(ctx)

	var topProducts []ProductSales
	if err := productsCursor.All(ctx, &topProducts); err != nil {
		return nil, err
	}

	report := &SellerSalesReport{
		SellerID:    sellerID,
		ByStatus:    byStatus,
		TopProducts: topProducts,
	}
	for _, row := range byStatus {
		report.TotalOrders += row.Orders
		if row.Status == "completed" {
			report.TotalRevenue += row.Revenue
		}
	}
	return report, nil
}
