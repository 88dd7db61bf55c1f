package store_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/ecuworks/tunehub/internal/config"
	"github.com/ecuworks/tunehub/internal/store"
	"github.com/ecuworks/tunehub/internal/store/model"
)

const (
	insertMessageStm = "INSERT INTO messages (id, job_id, author_id, body, created_at) VALUES ('%s', '%s', '%s', '%s', '%s');"
)

var _ = Describe("message store", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		owner  uuid.UUID
		jobID  uuid.UUID
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())
	})

	BeforeEach(func() {
		owner = uuid.New()
		jobID = uuid.New()
		tx := gormdb.Exec(fmt.Sprintf(insertUserStm, owner, owner.String(), "Owner", "requester"))
		Expect(tx.Error).To(BeNil())
		tx = gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, owner, "pending"))
		Expect(tx.Error).To(BeNil())
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM messages;")
		gormdb.Exec("DELETE FROM jobs;")
		gormdb.Exec("DELETE FROM users;")
	})

	AfterAll(func() {
		s.Close()
	})

	Context("create", func() {
		It("stores the message and returns it with its author", func() {
			message, err := s.Message().Create(context.TODO(), model.Message{
				JobID:    jobID,
				AuthorID: owner,
				Body:     "any chance of a stage2 map for this ecu?",
			})
			Expect(err).To(BeNil())
			Expect(message.ID).NotTo(Equal(uuid.Nil))
			Expect(message.Author.ID).To(Equal(owner))
		})

		It("keeps every message posted concurrently", func() {
			const posters = 8

			var wg sync.WaitGroup
			errs := make([]error, posters)
			for i := 0; i < posters; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, errs[i] = s.Message().Create(context.TODO(), model.Message{
						JobID:    jobID,
						AuthorID: owner,
						Body:     fmt.Sprintf("message %d", i),
					})
				}(i)
			}
			wg.Wait()

			for _, err := range errs {
				Expect(err).To(BeNil())
			}

			messages, err := s.Message().List(context.TODO(), jobID)
			Expect(err).To(BeNil())
			Expect(messages).To(HaveLen(posters))
		})
	})

	Context("list", func() {
		It("returns messages oldest first", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertMessageStm, uuid.New(), jobID, owner, "second", "2026-02-01 10:00:01"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertMessageStm, uuid.New(), jobID, owner, "first", "2026-02-01 10:00:00"))
			Expect(tx.Error).To(BeNil())

			messages, err := s.Message().List(context.TODO(), jobID)
			Expect(err).To(BeNil())
			Expect(messages).To(HaveLen(2))
			Expect(messages[0].Body).To(Equal("first"))
			Expect(messages[1].Body).To(Equal("second"))
		})

		It("scopes the thread to the job", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertMessageStm, uuid.New(), jobID, owner, "mine", "2026-02-01 10:00:00"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertMessageStm, uuid.New(), uuid.New(), owner, "other", "2026-02-01 10:00:00"))
			Expect(tx.Error).To(BeNil())

			messages, err := s.Message().List(context.TODO(), jobID)
			Expect(err).To(BeNil())
			Expect(messages).To(HaveLen(1))
			Expect(messages[0].Body).To(Equal("mine"))
		})
	})
})
