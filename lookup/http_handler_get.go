package lookup

import (
	"net/http"
	"strings"

	"github.com/9seconds/ipintel/intel"
)

type classifyResponse struct {
	intel.AddressClassification
	Notice intel.SpecialNotice `json:"notice"`
}

type riskResponse struct {
	IP             string                      `json:"ip"`
	Classification intel.AddressClassification `json:"classification"`
	Security       *Security                   `json:"security"`
}

type gdprResponse struct {
	CountryCode string `json:"country_code"`
	intel.GDPR
}

func (h httpHandler) handleGetInspect(w http.ResponseWriter, req *http.Request) {
	report, err := h.engine.Inspect(req.Context(), requestAddress(req))
	if err != nil {
		h.sendInspectError(w, err)

		return
	}

	device := intel.ParseUserAgent(req.UserAgent())
	report.Device = &device

	h.sendResult(w, report)
}

func (h httpHandler) handleGetClassify(w http.ResponseWriter, req *http.Request) {
	classification, err := intel.Classify(requestAddress(req))
	if err != nil {
		h.sendInspectError(w, err)

		return
	}

	h.sendResult(w, classifyResponse{
		AddressClassification: classification,
		Notice:                classification.SpecialNotice(),
	})
}

func (h httpHandler) handleGetRisk(w http.ResponseWriter, req *http.Request) {
	report, err := h.engine.Inspect(req.Context(), requestAddress(req))
	if err != nil {
		h.sendInspectError(w, err)

		return
	}

	h.sendResult(w, riskResponse{
		IP:             report.IP,
		Classification: report.Classification,
		Security:       report.Security,
	})
}

func (h httpHandler) handleGetGDPR(w http.ResponseWriter, req *http.Request) {
	if country := strings.TrimSpace(req.URL.Query().Get("country")); country != "" {
		h.sendResult(w, gdprResponse{
			CountryCode: strings.ToUpper(country),
			GDPR:        intel.GDPRInfo(country),
		})

		return
	}

	report, err := h.engine.Inspect(req.Context(), requestAddress(req))
	if err != nil {
		h.sendInspectError(w, err)

		return
	}

	if report.Compliance == nil {
		h.sendError(w, nil, CodeDataNotFound,
			"This IP address has no location", http.StatusNotFound)

		return
	}

	h.sendResult(w, gdprResponse{
		CountryCode: report.Location.Country.Alpha2Code,
		GDPR:        *report.Compliance,
	})
}

func (h httpHandler) handleGetStats(w http.ResponseWriter, _ *http.Request) {
	h.encodeJSON(w, http.StatusOK, struct {
		Results []*UsageStats `json:"results"`
	}{
		Results: h.engine.UsageStats(),
	})
}

func (h httpHandler) handleGetHealth(w http.ResponseWriter, _ *http.Request) {
	if h.engine.isClosed() {
		h.sendError(w, ErrEngineShutdown, CodeUnavailable,
			"Service is shutting down", http.StatusServiceUnavailable)

		return
	}

	h.encodeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
	}{
		Status: "ok",
	})
}
