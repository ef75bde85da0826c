package migrations_test

import (
	"os"
	"path"

	"github.com/kubev2v/rack-planner/internal/config"
	"github.com/kubev2v/rack-planner/internal/store"
	"github.com/kubev2v/rack-planner/pkg/migrations"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("migrations", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
	})

	AfterAll(func() {
		s.Close()
	})

	tableExists := func(name string) bool {
		var count int64
		tx := gormdb.Raw("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&count)
		Expect(tx.Error).To(BeNil())
		return count == 1
	}

	Context("store migrations", Ordered, func() {
		It("fails to migrate the db -- migration folder does not exists", func() {
			cfg := config.NewDefault()
			cfg.Service.MigrationFolder = "some folder"
			err := migrations.MigrateStore(gormdb, cfg)
			Expect(err).NotTo(BeNil())
		})

		It("successfully migrates the db from a folder", func() {
			currentFolder, err := os.Getwd()
			Expect(err).To(BeNil())
			cfg := config.NewDefault()
			cfg.Service.MigrationFolder = path.Join(currentFolder, "sql")

			Expect(migrations.MigrateStore(gormdb, cfg)).To(Succeed())

			for _, table := range []string{"rooms", "racks", "rack_slots", "devices", "network_cards", "ports", "cables", "cable_endpoints"} {
				Expect(tableExists(table)).To(BeTrue(), table)
			}
		})

		It("successfully migrates the db with the embedded migrations", func() {
			Expect(migrations.MigrateStore(gormdb, config.NewDefault())).To(Succeed())
			Expect(tableExists("cables")).To(BeTrue())
		})

		AfterEach(func() {
			for _, table := range []string{"cable_endpoints", "cables", "ports", "network_cards", "devices", "rack_slots", "racks", "rooms", "goose_db_version"} {
				gormdb.Exec("DROP TABLE IF EXISTS " + table + ";")
			}
		})
	})
})
