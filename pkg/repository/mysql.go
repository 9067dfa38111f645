package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/freshmart/pkg/config"
	"github.com/example/freshmart/pkg/order"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// ArchivedOrder is the durable MySQL copy of an order. Money is stored as
// fixed-point strings and line items as a JSON blob; this is a bookkeeping
// archive, not a query model.
type ArchivedOrder struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	CustomerID   int64  `gorm:"not null;index"`
	CustomerName string `gorm:"type:varchar(100)"`
	Phone        string `gorm:"type:varchar(20)"`
	Address      string `gorm:"type:text"`
	Items        string `gorm:"type:text"` // JSON string
	Subtotal     string `gorm:"type:varchar(20)"`
	DeliveryFee  string `gorm:"type:varchar(20)"`
	Total        string `gorm:"type:varchar(20)"`
	Instructions string `gorm:"type:text"`
	Status       string `gorm:"type:varchar(20);default:'Pending'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (ArchivedOrder) TableName() string {
	return "orders"
}

type MySQL struct {
	db *gorm.DB
}

func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	if err := db.AutoMigrate(&ArchivedOrder{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return &MySQL{db: db}, nil
}

// ArchiveOrder stores a durable copy of the order. Satisfies order.Archive.
func (m *MySQL) ArchiveOrder(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Lines)
	if err != nil {
		return fmt.Errorf("failed to serialize items: %w", err)
	}

	row := &ArchivedOrder{
		ID:           o.ID,
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		Phone:        o.Phone,
		Address:      o.Address,
		Items:        string(itemsJSON),
		Subtotal:     o.Subtotal.StringFixed(2),
		DeliveryFee:  o.DeliveryFee.StringFixed(2),
		Total:        o.Total.StringFixed(2),
		Instructions: o.Instructions,
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}

	return m.db.WithContext(ctx).Create(row).Error
}

// ArchiveStatus mirrors a status transition into the archive row.
func (m *MySQL) ArchiveStatus(ctx context.Context, orderID string, status order.Status) error {
	updates := map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	}
	return m.db.WithContext(ctx).Model(&ArchivedOrder{}).Where("id = ?", orderID).Updates(updates).Error
}
