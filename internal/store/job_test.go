package store_test

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/ecuworks/tunehub/internal/config"
	"github.com/ecuworks/tunehub/internal/store"
	"github.com/ecuworks/tunehub/internal/store/model"
)

const (
	insertUserStm = "INSERT INTO users (id, username, display_name, role) VALUES ('%s', '%s', '%s', '%s');"
	insertJobStm  = "INSERT INTO jobs (id, owner_id, original_file, stored_file, status, created_at, updated_at) VALUES ('%s', '%s', 'stage1.bin', 'stored/stage1.bin', '%s', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);"
)

var _ = Describe("job store", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		owner  uuid.UUID
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
		tx := gormdb.Exec(fmt.Sprintf(insertUserStm, owner, owner.String(), "Owner", "requester"))
		Expect(tx.Error).To(BeNil())
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM jobs;")
		gormdb.Exec("DELETE FROM users;")
	})

	AfterAll(func() {
		s.Close()
	})

	Context("create", func() {
		It("creates a job in pending state regardless of the given status", func() {
			job, err := s.Job().Create(context.TODO(), model.Job{
				OwnerID:      owner,
				OriginalFile: "edc17.bin",
				StoredFile:   "stored/edc17.bin",
				Status:       model.JobStatusCompleted,
			})
			Expect(err).To(BeNil())
			Expect(job.ID).NotTo(Equal(uuid.Nil))
			Expect(job.Status).To(Equal(model.JobStatusPending))
		})
	})

	Context("get", func() {
		It("returns the job with its owner preloaded", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, owner, "pending"))
			Expect(tx.Error).To(BeNil())

			job, err := s.Job().Get(context.TODO(), jobID)
			Expect(err).To(BeNil())
			Expect(job.Owner.ID).To(Equal(owner))
		})

		It("returns ErrRecordNotFound for an unknown id", func() {
			_, err := s.Job().Get(context.TODO(), uuid.New())
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("list", func() {
		It("lists all jobs newest first", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.New(), owner, "pending"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.New(), owner, "completed"))
			Expect(tx.Error).To(BeNil())

			jobs, err := s.Job().List(context.TODO(), store.NewJobQueryFilter())
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(2))
		})

		It("filters by owner", func() {
			other := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertUserStm, other, other.String(), "Other", "requester"))
			Expect(tx.Error).To(BeNil())

			tx = gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.New(), owner, "pending"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.New(), other, "pending"))
			Expect(tx.Error).To(BeNil())

			jobs, err := s.Job().List(context.TODO(), store.NewJobQueryFilter().ByOwnerID(owner))
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].OwnerID).To(Equal(owner))
		})

		It("filters by status", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.New(), owner, "pending"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.New(), owner, "cancelled"))
			Expect(tx.Error).To(BeNil())

			jobs, err := s.Job().List(context.TODO(), store.NewJobQueryFilter().ByStatus("cancelled"))
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].Status).To(Equal(model.JobStatusCancelled))
		})
	})

	Context("update if pending", func() {
		It("updates the editable fields of a pending job", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, owner, "pending"))
			Expect(tx.Error).To(BeNil())

			notes := "please keep stock torque limiter"
			opts := model.TuningOptions{Stage: "stage1", EGROff: true}
			job, err := s.Job().UpdateIfPending(context.TODO(), jobID, owner, store.JobUpdate{
				Notes:   &notes,
				Options: &opts,
			})
			Expect(err).To(BeNil())
			Expect(job.Notes).To(Equal(notes))
			Expect(job.TuningOptions().EGROff).To(BeTrue())
		})

		It("rejects updates from a different owner as not found", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, owner, "pending"))
			Expect(tx.Error).To(BeNil())

			notes := "notes"
			_, err := s.Job().UpdateIfPending(context.TODO(), jobID, uuid.New(), store.JobUpdate{Notes: &notes})
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})

		It("rejects updates to a completed job", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, owner, "completed"))
			Expect(tx.Error).To(BeNil())

			notes := "notes"
			_, err := s.Job().UpdateIfPending(context.TODO(), jobID, owner, store.JobUpdate{Notes: &notes})
			Expect(err).To(MatchError(store.ErrImmutableState))
		})
	})

	Context("transition", func() {
		It("completes a pending job and records the processed file", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, owner, "pending"))
			Expect(tx.Error).To(BeNil())

			processed := "processed/stage1.bin"
			job, err := s.Job().Transition(context.TODO(), jobID, model.JobStatusPending, model.JobStatusCompleted, &processed)
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(model.JobStatusCompleted))
			Expect(*job.ProcessedFile).To(Equal(processed))
		})

		It("cancels a pending job", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, owner, "pending"))
			Expect(tx.Error).To(BeNil())

			job, err := s.Job().Transition(context.TODO(), jobID, model.JobStatusPending, model.JobStatusCancelled, nil)
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(model.JobStatusCancelled))
		})

		It("refuses to move a terminal job", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, owner, "completed"))
			Expect(tx.Error).To(BeNil())

			_, err := s.Job().Transition(context.TODO(), jobID, model.JobStatusPending, model.JobStatusCancelled, nil)
			Expect(err).To(MatchError(store.ErrInvalidTransition))
		})

		It("returns ErrRecordNotFound for an unknown job", func() {
			_, err := s.Job().Transition(context.TODO(), uuid.New(), model.JobStatusPending, model.JobStatusCompleted, nil)
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("operator message", func() {
		It("sets the operator message on any job state", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, owner, "completed"))
			Expect(tx.Error).To(BeNil())

			job, err := s.Job().SetOperatorMessage(context.TODO(), jobID, "checksum corrected, flash via OBD")
			Expect(err).To(BeNil())
			Expect(*job.OperatorMessage).To(Equal("checksum corrected, flash via OBD"))
		})
	})
})
