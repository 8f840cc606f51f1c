package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/threadline/marketplace-api/pkg/mongo"
)

// AIReportResponse represents the structure of AI-generated reports
type AIReportResponse struct {
	Status      string     `json:"status"`
	Data        ReportData `json:"data"`
	GeneratedAt time.Time  `json:"generated_at"`
	AIEnabled   bool       `json:"ai_enabled"`
}

type ReportData struct {
	RawData    any    `json:"raw_data"`
	AIInsights string `json:"ai_insights,omitempty"`
	Summary    string `json:"summary"`
	Error      string `json:"error,omitempty"`
}

// GenerateSellerSalesReport aggregates a seller's order book and, when the
// AI service is configured, layers narrative insights on top. Without
// credentials the caller still gets the raw aggregates.
func GenerateSellerSalesReport(ctx context.Context, store *mongo.Store, sellerID string) (*AIReportResponse, error) {
	salesData, err := store.GetSellerSalesReport(ctx, sellerID)
	if err != nil {
		return &AIReportResponse{
			Status:      "error",
			Data:        ReportData{Error: "Failed to fetch sales data: " + err.Error()},
			GeneratedAt: time.Now(),
			AIEnabled:   IsEnabled(),
		}, err
	}

	response := &AIReportResponse{
		Status:      "success",
		GeneratedAt: time.Now(),
		AIEnabled:   IsEnabled(),
		Data: ReportData{
			RawData: salesData,
			Summary: "Sales data retrieved successfully",
		},
	}

	if IsEnabled() {
		userPrompt := formatSellerSalesPrompt(salesData)
		aiInsights, err := generateCompletion(ctx, SellerSalesSystemPrompt, userPrompt)
		if err != nil {
			response.Data.Error = "AI analysis failed: " + err.Error()
		} else {
			response.Data.AIInsights = aiInsights
			response.Data.Summary = "AI-generated sales insights and recommendations"
		}
	} else {
		response.Data.Summary = "Raw sales data (AI insights unavailable)"
	}

	return response, nil
}

func formatSellerSalesPrompt(salesData *mongo.SellerSalesReport) string {
	jsonData, _ := json.MarshalIndent(salesData, "", "  ")
	return fmt.Sprintf(`Analyze the following marketplace seller's sales data:

%s

Please provide:
1. How the order funnel looks and where orders stall or get cancelled
2. Which listings drive revenue and which underperform
3. Concrete next steps for this seller`, string(jsonData))
}
