package service_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/ecuworks/tunehub/internal/config"
	"github.com/ecuworks/tunehub/internal/events"
	"github.com/ecuworks/tunehub/internal/service"
	"github.com/ecuworks/tunehub/internal/store"
	"github.com/ecuworks/tunehub/internal/store/model"
)

var _ = Describe("report service", Ordered, func() {
	var (
		s         store.Store
		gormdb    *gorm.DB
		srv       *service.ReportService
		operator  *model.User
		requester *model.User
		jobID     uuid.UUID
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())
	})

	BeforeEach(func() {
		h := newHub(s)
		producer := events.NewEventProducer(newTestWriter())
		jobSrv := service.NewJobService(s, h, producer)
		srv = service.NewReportService(s, jobSrv, h, producer)

		operator = &model.User{ID: uuid.New(), Username: "op", Role: model.RoleOperator}
		requester = &model.User{ID: uuid.New(), Username: "req", Role: model.RoleRequester}
		for _, u := range []*model.User{operator, requester} {
			tx := gormdb.Exec(fmt.Sprintf(insertUserStm, u.ID, u.Username, u.Username, u.Role))
			Expect(tx.Error).To(BeNil())
		}

		jobID = uuid.New()
		tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, requester.ID, "completed"))
		Expect(tx.Error).To(BeNil())
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM problem_reports;")
		gormdb.Exec("DELETE FROM jobs;")
		gormdb.Exec("DELETE FROM users;")
	})

	AfterAll(func() {
		s.Close()
	})

	Context("file", func() {
		It("opens a report against a completed job", func() {
			report, err := srv.FileProblem(context.TODO(), requester, jobID, "car pulls timing on bank 1")
			Expect(err).To(BeNil())
			Expect(report.Status).To(Equal(model.ReportStatusOpen))
			Expect(report.ReporterID).To(Equal(requester.ID))
		})

		It("requires a description", func() {
			_, err := srv.FileProblem(context.TODO(), requester, jobID, "   ")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrValidation{}))
		})

		It("is reserved to the job owner, operator included", func() {
			_, err := srv.FileProblem(context.TODO(), operator, jobID, "description")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrForbidden{}))
		})

		It("refuses filing against a pending job", func() {
			pendingID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertJobStm, pendingID, requester.ID, "pending"))
			Expect(tx.Error).To(BeNil())

			_, err := srv.FileProblem(context.TODO(), requester, pendingID, "description")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrJobNotCompleted{}))
		})

		It("routes a second filing back to the open report", func() {
			first, err := srv.FileProblem(context.TODO(), requester, jobID, "first issue")
			Expect(err).To(BeNil())

			_, err = srv.FileProblem(context.TODO(), requester, jobID, "second issue")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrReportAlreadyOpen{}))

			var alreadyOpen *service.ErrReportAlreadyOpen
			Expect(errors.As(err, &alreadyOpen)).To(BeTrue())
			Expect(alreadyOpen.Report.ID).To(Equal(first.ID))
		})
	})

	Context("resolve", func() {
		It("resolves the open report", func() {
			report, err := srv.FileProblem(context.TODO(), requester, jobID, "issue")
			Expect(err).To(BeNil())

			resolved, err := srv.ResolveProblem(context.TODO(), operator, jobID)
			Expect(err).To(BeNil())
			Expect(resolved.ID).To(Equal(report.ID))
			Expect(resolved.Status).To(Equal(model.ReportStatusResolved))
			Expect(resolved.ResolvedAt).NotTo(BeNil())
		})

		It("is reserved to the operator", func() {
			_, err := srv.ResolveProblem(context.TODO(), requester, jobID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrForbidden{}))
		})

		It("fails when nothing is open", func() {
			_, err := srv.ResolveProblem(context.TODO(), operator, jobID)
			Expect(err).To(BeAssignableToTypeOf(&service.ErrNoOpenReport{}))
		})

		It("allows a fresh report after resolution", func() {
			_, err := srv.FileProblem(context.TODO(), requester, jobID, "first issue")
			Expect(err).To(BeNil())

			_, err = srv.ResolveProblem(context.TODO(), operator, jobID)
			Expect(err).To(BeNil())

			report, err := srv.FileProblem(context.TODO(), requester, jobID, "issue after the fix")
			Expect(err).To(BeNil())
			Expect(report.Status).To(Equal(model.ReportStatusOpen))

			reports, err := srv.ListReports(context.TODO(), requester, jobID)
			Expect(err).To(BeNil())
			Expect(reports).To(HaveLen(2))
		})
	})
})
