package receipt_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
	"github.com/shopspring/decimal"

	"github.com/zombor/receipt-splitter/internal/receipt"
	"github.com/zombor/receipt-splitter/internal/scanning"
	"github.com/zombor/receipt-splitter/internal/splitting"
)

// fakeScanner returns a fixed reply for every image
type fakeScanner struct {
	data *scanning.ReceiptData
}

func (f *fakeScanner) ScanReceipt(ctx context.Context, imageData []byte, contentType string) (*scanning.ReceiptData, error) {
	return f.data, nil
}

func (f *fakeScanner) ReadText(ctx context.Context, imageData []byte, contentType string) (string, error) {
	return "", nil
}

func (f *fakeScanner) Close() error {
	return nil
}

var _ = Describe("Integration", func() {
	var (
		store    *receipt.BoltStore
		storage  *receipt.LocalStorage
		server   *receipt.Server
		ghServer *ghttp.Server
	)

	BeforeEach(func() {
		tempDir := GinkgoT().TempDir()

		var err error
		store, err = receipt.NewBoltStore(filepath.Join(tempDir, "test.db"))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(store.Close)

		storage, err = receipt.NewLocalStorage(filepath.Join(tempDir, "receipts"))
		Expect(err).NotTo(HaveOccurred())

		scanner := &fakeScanner{
			data: &scanning.ReceiptData{
				Items: []scanning.ItemData{
					{Name: "Lülə kabab", Quantity: 2, UnitPrice: decimal.RequireFromString("9.00"), TotalPrice: decimal.RequireFromString("18.00")},
					{Name: "Ayran", Quantity: 3, UnitPrice: decimal.RequireFromString("1.50"), TotalPrice: decimal.RequireFromString("4.50")},
				},
				Merchant: "Nargiz",
				Date:     "2024-03-20",
				Currency: "AZN",
			},
		}

		service := receipt.NewService(store, scanner, storage)
		server = receipt.NewServerWithMux(service, receipt.BasicAuth{}, http.NewServeMux(), http.NotFoundHandler())

		ghServer = ghttp.NewServer()
		DeferCleanup(ghServer.Close)
	})

	postJSON := func(path string, body any) *http.Response {
		data, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		resp, err := http.Post(ghServer.URL()+path, "application/json", bytes.NewReader(data))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(resp.Body.Close)
		return resp
	}

	decodeSession := func(resp *http.Response) splitting.Session {
		var session splitting.Session
		Expect(json.NewDecoder(resp.Body).Decode(&session)).To(Succeed())
		return session
	}

	It("splits an uploaded receipt between participants", func() {
		ghServer.AppendHandlers(
			server.ServeHTTP, // create session
			server.ServeHTTP, // add Leyla
			server.ServeHTTP, // add Tural
			server.ServeHTTP, // upload
			server.ServeHTTP, // assign kabab to Leyla
			server.ServeHTTP, // assign kabab to Tural
			server.ServeHTTP, // assign ayran to Tural
			server.ServeHTTP, // results
		)

		session := decodeSession(postJSON("/api/sessions", nil))
		base := "/api/sessions/" + session.ID

		Expect(postJSON(base+"/participants", map[string]string{"name": "Leyla"}).StatusCode).To(Equal(http.StatusOK))
		Expect(postJSON(base+"/participants", map[string]string{"name": "Tural"}).StatusCode).To(Equal(http.StatusOK))

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", "receipt.pdf")
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write([]byte("%PDF-1.4 ... fake pdf content ..."))
		Expect(err).NotTo(HaveOccurred())
		Expect(writer.Close()).To(Succeed())

		req, err := http.NewRequest(http.MethodPost, ghServer.URL()+base+"/receipt", body)
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Content-Type", writer.FormDataContentType())
		resp, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		session = decodeSession(resp)
		Expect(session.Step).To(Equal(splitting.StepAssign))
		Expect(session.Receipt.Merchant).To(Equal("Nargiz"))
		Expect(session.Receipt.ImageType).To(Equal("application/pdf"))
		Expect(session.Ledger.Items).To(HaveLen(2))
		kabab, ayran := session.Ledger.Items[0].ID, session.Ledger.Items[1].ID

		// the image is kept on disk and the session in the database
		_, err = storage.Get(session.ID)
		Expect(err).NotTo(HaveOccurred())
		stored, err := store.GetSession(session.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.Ledger.Items).To(HaveLen(2))

		postJSON(base+"/items/"+kabab+"/toggle", map[string]string{"name": "Leyla"})
		postJSON(base+"/items/"+kabab+"/toggle", map[string]string{"name": "Tural"})
		postJSON(base+"/items/"+ayran+"/toggle", map[string]string{"name": "Tural"})

		resultsResp, err := http.Get(ghServer.URL() + base + "/results")
		Expect(err).NotTo(HaveOccurred())
		defer resultsResp.Body.Close()
		Expect(resultsResp.StatusCode).To(Equal(http.StatusOK))

		raw, err := io.ReadAll(resultsResp.Body)
		Expect(err).NotTo(HaveOccurred())
		var results receipt.Results
		Expect(json.Unmarshal(raw, &results)).To(Succeed())

		Expect(results.Totals).To(HaveLen(2))
		Expect(results.Totals[0].Name).To(Equal("Leyla"))
		Expect(results.Totals[0].Amount.Equal(decimal.RequireFromString("9"))).To(BeTrue())
		Expect(results.Totals[1].Name).To(Equal("Tural"))
		Expect(results.Totals[1].Amount.Equal(decimal.RequireFromString("13.5"))).To(BeTrue())
		Expect(results.Summary.UnassignedTotal.IsZero()).To(BeTrue())
		Expect(ghServer.ReceivedRequests()).To(HaveLen(8))
	})
})
