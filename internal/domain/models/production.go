package models

import "time"

// ColorGroupData is the weight dyed for one colour group on one day.
type ColorGroupData struct {
	GroupName  string   `json:"groupName" bson:"group_name"`
	Weight     float64  `json:"weight" bson:"weight"`
	Percentage *float64 `json:"percentage,omitempty" bson:"percentage,omitempty"`
}

// IndustryData is one industry's share of a daily production report.
type IndustryData struct {
	Name        string           `json:"name" bson:"name"`
	Total       float64          `json:"total" bson:"total"`
	LoadingCap  *float64         `json:"loadingCap,omitempty" bson:"loading_cap,omitempty"`
	ColorGroups []ColorGroupData `json:"colorGroups" bson:"color_groups"`
	Inhouse     float64          `json:"inhouse" bson:"inhouse"`
	SubContract float64          `json:"subContract" bson:"sub_contract"`
}

// ProductionRecord captures one day of dyeing output for both industries.
// Date keeps the report's own spelling (ISO or "29 Dec 2025").
type ProductionRecord struct {
	ID              string       `json:"id" bson:"_id"`
	Date            string       `json:"date" bson:"date"`
	Lantabur        IndustryData `json:"lantabur" bson:"lantabur"`
	Taqwa           IndustryData `json:"taqwa" bson:"taqwa"`
	TotalProduction float64      `json:"totalProduction" bson:"total_production"`
	CreatedAt       time.Time    `json:"createdAt" bson:"created_at"`
}

// ReportColorGroups lists the colour groups printed on the daily dyeing report.
var ReportColorGroups = []string{
	"100% Polyester",
	"Average",
	"Black",
	"Dark",
	"Extra Dark",
	"Double Part",
	"Double Part -Black",
	"Light",
	"Medium",
	"N/wash",
	"Royal",
	"White",
}
