package models

type Provider struct {
	ID         int     `gorm:"column:id;primaryKey" json:"id"`
	CountryID  int     `gorm:"column:country_id" json:"country_id"`
	ProviderID int     `gorm:"column:provider_id" json:"provider_id"`
	Name       *string `gorm:"column:name" json:"name"`
	Visible    bool    `gorm:"column:visible;default:true" json:"visible"`
}

func (Provider) TableName() string { return "providers" }
