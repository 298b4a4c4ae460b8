package mail

import (
	"bytes"
	"html/template"

	"github.com/lenbersih/lenbersih-api/internal/dto"
	"github.com/lenbersih/lenbersih-api/internal/models"
)

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #dc2626; color: white; padding: 20px; text-align: center; }
    .content { padding: 20px; border: 1px solid #ddd; }
    .section { margin-bottom: 20px; }
    .label { font-weight: bold; color: #555; }
    .value { margin-left: 10px; }
    .footer { background: #f5f5f5; padding: 15px; text-align: center; font-size: 12px; color: #666; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>New Whistleblowing Report</h1>
      <p>Len Bersih - E-Whistleblowing System</p>
    </div>

    <div class="content">
      <div class="section">
        <h2>Informasi Laporan</h2>
        <p><span class="label">ID Laporan:</span><span class="value">{{.ID}}</span></p>
        <p><span class="label">Kode Pelacakan:</span><span class="value">{{.TrackingCode}}</span></p>
        <p><span class="label">Tanggal Laporan:</span><span class="value">{{.DateReported}}</span></p>
        <p><span class="label">Kategori:</span><span class="value">{{.Category}}</span></p>
      </div>

      <div class="section">
        <h2>Data Pelapor</h2>
        <p><span class="label">Nama:</span><span class="value">{{.ReporterName}}</span></p>
        <p><span class="label">Email:</span><span class="value">{{.Email}}</span></p>
        <p><span class="label">Status:</span><span class="value">{{.ReporterStatus}}</span></p>
      </div>

      <div class="section">
        <h2>Data Terlapor</h2>
        <p><span class="label">Nama Terlapor:</span><span class="value">{{.ReportedName}}</span></p>
        <p><span class="label">Jabatan:</span><span class="value">{{.ReportedPosition}}</span></p>
        <p><span class="label">Unit Kerja:</span><span class="value">{{.ReportedUnit}}</span></p>
      </div>

      <div class="section">
        <h2>Detail Kejadian</h2>
        <p><span class="label">Waktu Kejadian:</span><span class="value">{{.IncidentDate}}</span></p>
        <p><span class="label">Lokasi Kejadian:</span><span class="value">{{.IncidentLocation}}</span></p>
        <div style="margin-top: 15px;">
          <p class="label">Uraian Kejadian:</p>
          <div style="background: #f9f9f9; padding: 15px; border-left: 4px solid #dc2626; margin-top: 5px;">
            {{.Description}}
          </div>
        </div>
      </div>

      <div class="section">
        <h2>Bukti Pendukung</h2>
        <p><span class="label">Bukti:</span><span class="value">{{.Evidence}}</span></p>
      </div>
    </div>

    <div class="footer">
      <p>Email ini dikirim otomatis oleh sistem Len Bersih.</p>
      <p>Untuk keamanan dan kerahasiaan, harap segera tindaklanjuti laporan ini sesuai prosedur yang berlaku.</p>
    </div>
  </div>
</body>
</html>`))

type reportTmplData struct {
	ID               int
	TrackingCode     string
	DateReported     string
	Category         string
	ReporterName     string
	Email            string
	ReporterStatus   string
	ReportedName     string
	ReportedPosition string
	ReportedUnit     string
	IncidentDate     string
	IncidentLocation string
	Description      template.HTML
	Evidence         string
}

// ReportNotificationBody renders the admin notification for a stored report.
func ReportNotificationBody(r *dto.Report) (string, error) {
	reporter := r.ReporterName
	reporterStatus := "Laporan Terbuka"
	if r.IsAnonymous {
		reporter = models.AnonymousName
		reporterStatus = "Laporan Anonim"
	}

	evidence := "Tidak ada file yang dilampirkan"
	if r.EvidenceFileName != "" {
		evidence = r.EvidenceFileName + " (" + r.EvidenceContentType + ")"
	}

	dateReported := ""
	if r.DateReported != nil {
		dateReported = r.DateReported.Format("02 January 2006 15:04")
	}

	data := reportTmplData{
		ID:               r.ID,
		TrackingCode:     r.TrackingCode,
		DateReported:     dateReported,
		Category:         r.Category,
		ReporterName:     reporter,
		Email:            r.Email,
		ReporterStatus:   reporterStatus,
		ReportedName:     r.ReportedName,
		ReportedPosition: r.ReportedPosition,
		ReportedUnit:     r.ReportedUnit,
		IncidentDate:     r.IncidentDate,
		IncidentLocation: r.IncidentLocation,
		Description:      htmlParagraph(r.Description),
		Evidence:         evidence,
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var accountTmpl = template.Must(template.New("account").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>{{.Title}}</h2>
    <p>{{.Intro}}</p>
    <p><a href="{{.Link}}" style="background: #dc2626; color: white; padding: 10px 20px; text-decoration: none;">{{.Action}}</a></p>
    <p style="font-size: 12px; color: #666;">Jika Anda tidak merasa melakukan permintaan ini, abaikan email ini.</p>
  </div>
</body>
</html>`))

type accountTmplData struct {
	Title  string
	Intro  string
	Link   string
	Action string
}

// ActivationBody renders the account activation mail.
func ActivationBody(link string) (string, error) {
	return renderAccount(accountTmplData{
		Title:  "Aktivasi Akun Len Bersih",
		Intro:  "Akun Anda telah dibuat. Klik tombol di bawah untuk mengaktifkan akun.",
		Link:   link,
		Action: "Aktifkan Akun",
	})
}

// PasswordResetBody renders the forgotten-password mail.
func PasswordResetBody(link string) (string, error) {
	return renderAccount(accountTmplData{
		Title:  "Atur Ulang Kata Sandi",
		Intro:  "Kami menerima permintaan untuk mengatur ulang kata sandi Anda.",
		Link:   link,
		Action: "Atur Ulang Kata Sandi",
	})
}

func renderAccount(data accountTmplData) (string, error) {
	var buf bytes.Buffer
	if err := accountTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// htmlParagraph escapes free text and preserves line breaks.
func htmlParagraph(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	var buf bytes.Buffer
	for i, line := range bytes.Split([]byte(escaped), []byte("\n")) {
		if i > 0 {
			buf.WriteString("<br>")
		}
		buf.Write(line)
	}
	return template.HTML(buf.String())
}
