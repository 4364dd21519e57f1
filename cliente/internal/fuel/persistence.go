package fuel

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PackageModel representa o esquema do banco para um pacote de modelo
// já baixado do catálogo.
type PackageModel struct {
	URI       string `gorm:"primaryKey"` // URI canônica do pacote
	Manifest  []byte // lista de arquivos serializada em JSON
	Document  []byte // documento SDF raiz
	MTime     int64  // timestamp da busca
	UpdatedAt time.Time
}

// CacheMetadata armazena informações globais do cache no banco.
type CacheMetadata struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

const CurrentFormatVersion = 1

// DiskCache persiste pacotes do catálogo em SQLite para que sessões
// futuras não precisem da rede.
type DiskCache struct {
	db *gorm.DB
}

// OpenDiskCache abre (ou cria) o banco do cache e roda migrações.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "fuel_cache.sv")

	// Logger silencioso em produção
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no SQLite: %w", err)
	}

	if err := db.AutoMigrate(&PackageModel{}, &CacheMetadata{}); err != nil {
		return nil, fmt.Errorf("falha na migração do banco: %w", err)
	}

	db.Save(&CacheMetadata{Key: "FormatVersion", Value: fmt.Sprint(CurrentFormatVersion)})

	log.Printf("[Fuel] Cache em disco aberto: %s", dbPath)
	return &DiskCache{db: db}, nil
}

// Store grava (upsert) o manifesto e o documento raiz de um pacote.
func (d *DiskCache) Store(uri string, files []string, document []byte) error {
	if d == nil || d.db == nil {
		return fmt.Errorf("cache em disco não inicializado")
	}

	manifest, err := json.Marshal(files)
	if err != nil {
		return err
	}

	model := PackageModel{
		URI:      uri,
		Manifest: manifest,
		Document: document,
		MTime:    time.Now().UnixNano(),
	}
	if err := d.db.Save(&model).Error; err != nil {
		log.Printf("[Fuel] ERRO ao persistir pacote %s: %v", uri, err)
		return err
	}
	return nil
}

// Load tenta recuperar um pacote do banco. ok=false se não existir.
func (d *DiskCache) Load(uri string) (files []string, document []byte, ok bool) {
	if d == nil || d.db == nil {
		return nil, nil, false
	}

	var model PackageModel
	if err := d.db.First(&model, "uri = ?", uri).Error; err != nil {
		return nil, nil, false
	}

	if err := json.Unmarshal(model.Manifest, &files); err != nil {
		log.Printf("[Fuel] Manifesto corrompido no cache para %s: %v", uri, err)
		return nil, nil, false
	}
	return files, model.Document, true
}
