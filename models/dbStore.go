package models

import (
	"errors"
	"time"

	"bitbucket.org/ahadnetwork/inventory_backend/config"
	"gorm.io/gorm"
)

// ErrStoreNotReady means a write was attempted before the database
// connection came up. Reads degrade to defaults instead.
var ErrStoreNotReady = errors.New("store not ready (database not connected)")

// Redis snapshot keys. Reads consult the snapshot first so the dashboard
// renders immediately while a fresh sync runs (stale-while-revalidate).
const (
	redisKeyProducts    = "ahad-products"
	redisKeyActivityLog = "ahad-activity-log"
	snapshotTTL         = 24 * time.Hour
)

// DBStore is the production Store: MySQL is the system of record, redis
// carries a read-through snapshot. State is replaced wholesale on every
// write; there is no field-level mutation.
//
// The DB handle is resolved per call because the HTTP listener starts
// before the database connection is established.
type DBStore struct {
	db *gorm.DB
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) conn() *gorm.DB {
	if s.db != nil {
		return s.db
	}
	return config.GetDB()
}

// Migrate creates the catalog and ledger tables.
func (s *DBStore) Migrate() error {
	db := s.conn()
	if db == nil {
		return ErrStoreNotReady
	}
	return db.AutoMigrate(&Product{}, &ActivityLog{}, &ProductUpdate{})
}

func (s *DBStore) ReadCatalog() map[string]*Product {
	var fromCache map[string]*Product
	if ok, err := config.GetRedisObject(redisKeyProducts, &fromCache); err == nil && ok && len(fromCache) > 0 {
		return fromCache
	}

	db := s.conn()
	if db == nil {
		return DefaultProducts()
	}
	var products []Product
	if err := db.Find(&products).Error; err != nil || len(products) == 0 {
		return DefaultProducts()
	}
	catalog := make(map[string]*Product, len(products))
	for i := range products {
		p := products[i]
		catalog[p.ID] = &p
	}
	_ = config.SetRedisObject(redisKeyProducts, catalog, snapshotTTL)
	return catalog
}

func (s *DBStore) ReadLedger() []ActivityLog {
	var fromCache []ActivityLog
	if ok, err := config.GetRedisObject(redisKeyActivityLog, &fromCache); err == nil && ok {
		return fromCache
	}

	db := s.conn()
	if db == nil {
		return []ActivityLog{}
	}
	var logs []ActivityLog
	err := db.
		Preload("ProductUpdates", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_updates.position ASC")
		}).
		Order("seq ASC").
		Find(&logs).Error
	if err != nil {
		return []ActivityLog{}
	}
	_ = config.SetRedisObject(redisKeyActivityLog, logs, snapshotTTL)
	return logs
}

func (s *DBStore) Write(catalog map[string]*Product, ledger []ActivityLog) error {
	db := s.conn()
	if db == nil {
		return ErrStoreNotReady
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&ProductUpdate{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&ActivityLog{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Product{}).Error; err != nil {
			return err
		}

		for _, id := range ProductIDs() {
			if p, ok := catalog[id]; ok {
				if err := tx.Create(p).Error; err != nil {
					return err
				}
			}
		}
		for i := range ledger {
			entry := ledger[i]
			entry.Seq = i
			for j := range entry.ProductUpdates {
				entry.ProductUpdates[j].ID = 0
				entry.ProductUpdates[j].ActivityLogID = entry.ID
				entry.ProductUpdates[j].Position = j
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	_ = config.SetRedisObject(redisKeyProducts, catalog, snapshotTTL)
	_ = config.SetRedisObject(redisKeyActivityLog, ledger, snapshotTTL)
	return nil
}

func (s *DBStore) Clear() error {
	_ = config.RemoveRedisKey(redisKeyProducts, redisKeyActivityLog)
	db := s.conn()
	if db == nil {
		return ErrStoreNotReady
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&ProductUpdate{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&ActivityLog{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Product{}).Error
	})
}
