package v1

import (
	api "github.com/ecuworks/tunehub/api/v1"
	"github.com/ecuworks/tunehub/internal/service"
	"github.com/ecuworks/tunehub/internal/store/model"
)

func optionsToApi(o model.TuningOptions) api.TuningOptions {
	return api.TuningOptions{
		Stage:     o.Stage,
		DPFOff:    o.DPFOff,
		EGROff:    o.EGROff,
		AdBlueOff: o.AdBlueOff,
		DTCOff:    o.DTCOff,
		DTCCodes:  o.DTCCodes,
		ImmoOff:   o.ImmoOff,
	}
}

func optionsFromApi(o api.TuningOptions) model.TuningOptions {
	return model.TuningOptions{
		Stage:     o.Stage,
		DPFOff:    o.DPFOff,
		EGROff:    o.EGROff,
		AdBlueOff: o.AdBlueOff,
		DTCOff:    o.DTCOff,
		DTCCodes:  o.DTCCodes,
		ImmoOff:   o.ImmoOff,
	}
}

func vehicleToApi(v model.Vehicle) api.Vehicle {
	return api.Vehicle{Make: v.Make, Model: v.Model, Year: v.Year, ECU: v.ECU}
}

func vehicleFromApi(v api.Vehicle) model.Vehicle {
	return model.Vehicle{Make: v.Make, Model: v.Model, Year: v.Year, ECU: v.ECU}
}

func JobToApi(j model.Job) api.Job {
	opts := j.TuningOptions()
	return api.Job{
		ID:              j.ID,
		OwnerID:         j.OwnerID,
		OwnerName:       j.Owner.DisplayName,
		OriginalFile:    j.OriginalFile,
		ProcessedFile:   j.ProcessedFile,
		DownloadName:    service.DerivedFilename(j.OriginalFile, opts),
		OperatorMessage: j.OperatorMessage,
		Notes:           j.Notes,
		Options:         optionsToApi(opts),
		Vehicle:         vehicleToApi(j.VehicleInfo()),
		Status:          string(j.Status),
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
	}
}

func JobListToApi(jobs model.JobList) api.JobList {
	out := make(api.JobList, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, JobToApi(j))
	}
	return out
}

func MessageToApi(m model.Message) api.Message {
	return api.Message{
		ID:         m.ID,
		JobID:      m.JobID,
		AuthorID:   m.AuthorID,
		AuthorName: m.Author.DisplayName,
		AuthorRole: string(m.Author.Role),
		Body:       m.Body,
		CreatedAt:  m.CreatedAt,
	}
}

func MessageListToApi(messages model.MessageList) api.MessageList {
	out := make(api.MessageList, 0, len(messages))
	for _, m := range messages {
		out = append(out, MessageToApi(m))
	}
	return out
}

func ReportToApi(r model.ProblemReport) api.ProblemReport {
	return api.ProblemReport{
		ID:           r.ID,
		JobID:        r.JobID,
		ReporterID:   r.ReporterID,
		ReporterName: r.Reporter.DisplayName,
		Description:  r.Description,
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt,
		ResolvedAt:   r.ResolvedAt,
	}
}

func ReportListToApi(reports model.ProblemReportList) api.ProblemReportList {
	out := make(api.ProblemReportList, 0, len(reports))
	for _, r := range reports {
		out = append(out, ReportToApi(r))
	}
	return out
}
