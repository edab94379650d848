package database

import (
	"strings"
	"testing"
	"time"

	"go-storefront/pkg/config"

	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

func TestMysqlDSN(t *testing.T) {
	dsn := MysqlDSN(config.MysqlConfig{Host: "db", Port: 3307, User: "shop", Password: "pw", DbName: "storefront"})
	mc, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("ParseDSN(%q) returned error: %v", dsn, err)
	}
	if mc.User != "shop" || mc.Passwd != "pw" || mc.Addr != "db:3307" || mc.DBName != "storefront" {
		t.Errorf("Expected shop:pw@db:3307/storefront, got %s", dsn)
	}
	if !mc.ParseTime || mc.Loc != time.Local {
		t.Errorf("Expected parseTime with local location, got %s", dsn)
	}
	if !strings.Contains(dsn, "charset=utf8mb4") {
		t.Errorf("Expected utf8mb4 charset, got %s", dsn)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle"}, config.MysqlConfig{}, zap.NewNop(), false)
	if err == nil {
		t.Errorf("Expected error for unknown driver")
	}
}

func TestOpenSQLite(t *testing.T) {
	db, err := Open(config.DatabaseConfig{Driver: "sqlite", Path: "file:opentest?mode=memory&cache=shared", MaxOpenConns: 2}, config.MysqlConfig{}, zap.NewNop(), true)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	var one int
	if err := db.Raw("SELECT 1").Scan(&one).Error; err != nil || one != 1 {
		t.Errorf("Expected SELECT 1 to return 1, got %d (%v)", one, err)
	}
}

func TestInitRedisDisabled(t *testing.T) {
	rdb, err := InitRedis(config.RedisConfig{})
	if err != nil || rdb != nil {
		t.Errorf("Expected nil client without error when address is empty, got %v, %v", rdb, err)
	}
}

func TestOpenMemoryIsolated(t *testing.T) {
	a, err := OpenMemory("isolated_a")
	if err != nil {
		t.Fatal(err)
	}
	b, err := OpenMemory("isolated_b")
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Exec("CREATE TABLE marker (id INTEGER)").Error; err != nil {
		t.Fatal(err)
	}
	if !a.Migrator().HasTable("marker") {
		t.Errorf("Expected table in first database")
	}
	if b.Migrator().HasTable("marker") {
		t.Errorf("Expected second database to be isolated")
	}
}
