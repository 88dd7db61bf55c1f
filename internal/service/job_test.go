package service_test

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/ecuworks/tunehub/internal/config"
	"github.com/ecuworks/tunehub/internal/events"
	"github.com/ecuworks/tunehub/internal/service"
	"github.com/ecuworks/tunehub/internal/service/mappers"
	"github.com/ecuworks/tunehub/internal/store"
	"github.com/ecuworks/tunehub/internal/store/model"
)

const (
	insertUserStm = "INSERT INTO users (id, username, display_name, role) VALUES ('%s', '%s', '%s', '%s');"
	insertJobStm  = "INSERT INTO jobs (id, owner_id, original_file, stored_file, status, created_at, updated_at) VALUES ('%s', '%s', 'stage1.bin', 'stored/stage1.bin', '%s', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);"
)

var _ = Describe("job service", Ordered, func() {
	var (
		s         store.Store
		gormdb    *gorm.DB
		srv       *service.JobService
		operator  *model.User
		requester *model.User
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())
	})

	BeforeEach(func() {
		srv = service.NewJobService(s, newHub(s), events.NewEventProducer(newTestWriter()))

		operator = &model.User{ID: uuid.New(), Username: "op", Role: model.RoleOperator}
		requester = &model.User{ID: uuid.New(), Username: "req", Role: model.RoleRequester}
		for _, u := range []*model.User{operator, requester} {
			tx := gormdb.Exec(fmt.Sprintf(insertUserStm, u.ID, u.Username, u.Username, u.Role))
			Expect(tx.Error).To(BeNil())
		}
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM jobs;")
		gormdb.Exec("DELETE FROM users;")
	})

	AfterAll(func() {
		s.Close()
	})

	Context("create", func() {
		It("creates a pending job owned by the actor", func() {
			job, err := srv.CreateJob(context.TODO(), requester, mappers.JobCreateForm{
				OriginalFile: "golf7_gtd.bin",
				StoredFile:   "uploads/golf7_gtd.bin",
				Options:      model.TuningOptions{Stage: "stage1", DPFOff: true},
			})
			Expect(err).To(BeNil())
			Expect(job.OwnerID).To(Equal(requester.ID))
			Expect(job.Status).To(Equal(model.JobStatusPending))
			Expect(job.TuningOptions().DPFOff).To(BeTrue())
		})

		It("rejects a submission without a file reference", func() {
			_, err := srv.CreateJob(context.TODO(), requester, mappers.JobCreateForm{})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrValidation{}))
		})
	})

	Context("get", func() {
		It("hides other users' jobs behind not found", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, requester.ID, "pending"))
			Expect(tx.Error).To(BeNil())

			stranger := &model.User{ID: uuid.New(), Role: model.RoleRequester}
			_, err := srv.GetJob(context.TODO(), stranger, jobID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})

		It("lets the operator see any job", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, requester.ID, "pending"))
			Expect(tx.Error).To(BeNil())

			job, err := srv.GetJob(context.TODO(), operator, jobID)
			Expect(err).To(BeNil())
			Expect(job.ID).To(Equal(jobID))
		})
	})

	Context("list", func() {
		It("scopes requesters to their own jobs and operators to all", func() {
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.New(), requester.ID, "pending"))
			Expect(tx.Error).To(BeNil())

			other := uuid.New()
			tx = gormdb.Exec(fmt.Sprintf(insertUserStm, other, other.String(), "Other", "requester"))
			Expect(tx.Error).To(BeNil())
			tx = gormdb.Exec(fmt.Sprintf(insertJobStm, uuid.New(), other, "pending"))
			Expect(tx.Error).To(BeNil())

			jobs, err := srv.ListJobs(context.TODO(), requester)
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))

			jobs, err = srv.ListJobs(context.TODO(), operator)
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(2))
		})
	})

	Context("update", func() {
		It("lets the owner edit a pending job", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, requester.ID, "pending"))
			Expect(tx.Error).To(BeNil())

			notes := "customer wants pops and bangs off"
			job, err := srv.UpdateJob(context.TODO(), requester, jobID, mappers.JobUpdateForm{Notes: &notes})
			Expect(err).To(BeNil())
			Expect(job.Notes).To(Equal(notes))
		})

		It("refuses operator edits on a requester's pending job", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, requester.ID, "pending"))
			Expect(tx.Error).To(BeNil())

			notes := "tampered notes"
			_, err := srv.UpdateJob(context.TODO(), operator, jobID, mappers.JobUpdateForm{Notes: &notes})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrForbidden{}))

			job, err := srv.GetJob(context.TODO(), operator, jobID)
			Expect(err).To(BeNil())
			Expect(job.Notes).To(BeEmpty())
		})

		It("refuses edits once the job is completed", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, requester.ID, "completed"))
			Expect(tx.Error).To(BeNil())

			notes := "notes"
			_, err := srv.UpdateJob(context.TODO(), requester, jobID, mappers.JobUpdateForm{Notes: &notes})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrImmutableState{}))
		})
	})

	Context("complete", func() {
		It("completes a pending job with the processed file", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, requester.ID, "pending"))
			Expect(tx.Error).To(BeNil())

			job, err := srv.CompleteJob(context.TODO(), operator, jobID, "processed/golf7_gtd.bin")
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(model.JobStatusCompleted))
			Expect(*job.ProcessedFile).To(Equal("processed/golf7_gtd.bin"))
		})

		It("requires a processed file reference", func() {
			_, err := srv.CompleteJob(context.TODO(), operator, uuid.New(), "  ")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrValidation{}))
		})

		It("is reserved to the operator", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, requester.ID, "pending"))
			Expect(tx.Error).To(BeNil())

			_, err := srv.CompleteJob(context.TODO(), requester, jobID, "processed/out.bin")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrForbidden{}))
		})
	})

	Context("cancel", func() {
		It("cancels a pending job", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, requester.ID, "pending"))
			Expect(tx.Error).To(BeNil())

			job, err := srv.CancelJob(context.TODO(), operator, jobID)
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(model.JobStatusCancelled))
		})

		It("refuses to cancel a completed job", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, requester.ID, "completed"))
			Expect(tx.Error).To(BeNil())

			_, err := srv.CancelJob(context.TODO(), operator, jobID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidTransition{}))
		})
	})

	Context("operator message", func() {
		It("records the operator note on a terminal job", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, requester.ID, "cancelled"))
			Expect(tx.Error).To(BeNil())

			job, err := srv.SetOperatorMessage(context.TODO(), operator, jobID, "file was corrupt, resubmit please")
			Expect(err).To(BeNil())
			Expect(*job.OperatorMessage).To(Equal("file was corrupt, resubmit please"))
		})

		It("is reserved to the operator", func() {
			jobID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, requester.ID, "pending"))
			Expect(tx.Error).To(BeNil())

			_, err := srv.SetOperatorMessage(context.TODO(), requester, jobID, "note")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrForbidden{}))
		})
	})
})
