package expense

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
	"github.com/shopspring/decimal"
)

var _ = Describe("Server", func() {
	var (
		db          *mockDB
		provider    *mockProvider
		storage     *mockStorage
		service     *Service
		server      *Server
		auth        BasicAuth
		ghttpServer *ghttp.Server
	)

	setupServer := func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
		server = NewServerWithMux(service, auth, http.NewServeMux())
		ghttpServer = ghttp.NewServer()
		ghttpServer.AppendHandlers(server.ServeHTTP)
	}

	BeforeEach(func() {
		db = newMockDB()
		provider = newMockProvider()
		storage = newMockStorage()
		now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		service = newTestService(db, provider, storage, now)
		auth = BasicAuth{}
		setupServer()
	})

	AfterEach(func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
	})

	uploadRequest := func() *http.Request {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile("file", "receipt.jpg")
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write([]byte("image bytes"))
		Expect(err).NotTo(HaveOccurred())
		Expect(writer.Close()).To(Succeed())

		req, err := http.NewRequest("POST", ghttpServer.URL()+"/api/receipts", &body)
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Content-Type", writer.FormDataContentType())
		return req
	}

	Describe("handleUploadReceipt", func() {
		When("the receipt interprets cleanly", func() {
			It("should return the created transaction", func() {
				resp, err := http.DefaultClient.Do(uploadRequest())
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusCreated))

				var transaction Transaction
				Expect(json.NewDecoder(resp.Body).Decode(&transaction)).To(Succeed())
				Expect(transaction.Merchant).To(Equal("GCash"))
				Expect(transaction.Category).To(Equal("Banking"))
			})
		})

		When("no amount can be detected", func() {
			BeforeEach(func() {
				provider.result.Text = "thank you for shopping"
				provider.result.Lines = []string{"thank you for shopping"}
			})

			It("should return status Unprocessable Entity", func() {
				resp, err := http.DefaultClient.Do(uploadRequest())
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))
				resp.Body.Close()
			})
		})

		When("the receipt number was already filed", func() {
			BeforeEach(func() {
				db.transactions["existing"] = &Transaction{
					ID:            "existing",
					ReceiptNumber: "1234567890123",
				}
			})

			It("should return status Conflict", func() {
				resp, err := http.DefaultClient.Do(uploadRequest())
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusConflict))
				resp.Body.Close()
			})
		})

		When("no file is provided", func() {
			It("should return status Bad Request", func() {
				var body bytes.Buffer
				writer := multipart.NewWriter(&body)
				Expect(writer.Close()).To(Succeed())

				req, err := http.NewRequest("POST", ghttpServer.URL()+"/api/receipts", &body)
				Expect(err).NotTo(HaveOccurred())
				req.Header.Set("Content-Type", writer.FormDataContentType())

				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				resp.Body.Close()
			})
		})
	})

	Describe("handleAddTransaction", func() {
		When("the entry is valid", func() {
			It("should return the created transaction", func() {
				payload := `{"merchant": "Uber", "amount": "17.80"}`
				resp, err := http.Post(ghttpServer.URL()+"/api/transactions", "application/json", bytes.NewBufferString(payload))
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusCreated))

				var transaction Transaction
				Expect(json.NewDecoder(resp.Body).Decode(&transaction)).To(Succeed())
				Expect(transaction.Manual).To(BeTrue())
				Expect(transaction.Category).To(Equal("Transport"))
			})
		})

		When("the body is not valid JSON", func() {
			It("should return status Bad Request", func() {
				resp, err := http.Post(ghttpServer.URL()+"/api/transactions", "application/json", bytes.NewBufferString("not json"))
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				resp.Body.Close()
			})
		})

		When("the amount is not positive", func() {
			It("should return status Bad Request", func() {
				payload := `{"merchant": "Uber", "amount": "0"}`
				resp, err := http.Post(ghttpServer.URL()+"/api/transactions", "application/json", bytes.NewBufferString(payload))
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				resp.Body.Close()
			})
		})
	})

	Describe("handleListTransactions", func() {
		When("no transactions exist", func() {
			It("should return an empty JSON array", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/transactions")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(body)).To(MatchJSON("[]"))
			})
		})

		When("transactions exist", func() {
			BeforeEach(func() {
				db.transactions["tx-1"] = &Transaction{ID: "tx-1", Merchant: "Walmart"}
			})

			It("should return them", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/transactions")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()

				var transactions []*Transaction
				Expect(json.NewDecoder(resp.Body).Decode(&transactions)).To(Succeed())
				Expect(transactions).To(HaveLen(1))
				Expect(transactions[0].Merchant).To(Equal("Walmart"))
			})
		})
	})

	Describe("handleGetTransaction", func() {
		When("the transaction exists", func() {
			BeforeEach(func() {
				db.transactions["tx-1"] = &Transaction{ID: "tx-1", Merchant: "Walmart"}
			})

			It("should return it", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/transactions/tx-1")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				var transaction Transaction
				Expect(json.NewDecoder(resp.Body).Decode(&transaction)).To(Succeed())
				Expect(transaction.Merchant).To(Equal("Walmart"))
			})
		})

		When("the transaction does not exist", func() {
			It("should return status Not Found", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/transactions/missing")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
				resp.Body.Close()
			})
		})
	})

	Describe("handleDeleteTransaction", func() {
		BeforeEach(func() {
			db.transactions["tx-1"] = &Transaction{ID: "tx-1"}
		})

		It("should return status No Content", func() {
			req, err := http.NewRequest("DELETE", ghttpServer.URL()+"/api/transactions/tx-1", nil)
			Expect(err).NotTo(HaveOccurred())
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
			resp.Body.Close()
			Expect(db.transactions).To(BeEmpty())
		})
	})

	Describe("handleGetReceiptImage", func() {
		When("the transaction has a stored image", func() {
			BeforeEach(func() {
				storage.files["tx-1_receipt.jpg"] = []byte("image bytes")
				db.transactions["tx-1"] = &Transaction{
					ID:          "tx-1",
					Filename:    "tx-1_receipt.jpg",
					ContentType: "image/jpeg",
				}
			})

			It("should return the image with its content type", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/transactions/tx-1/receipt")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				Expect(resp.Header.Get("Content-Type")).To(Equal("image/jpeg"))

				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(body).To(Equal([]byte("image bytes")))
			})
		})

		When("the transaction has no image", func() {
			BeforeEach(func() {
				db.transactions["tx-1"] = &Transaction{ID: "tx-1"}
			})

			It("should return status Not Found", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/transactions/tx-1/receipt")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
				resp.Body.Close()
			})
		})
	})

	Describe("handleListCategories", func() {
		When("no categories exist", func() {
			It("should return an empty JSON array", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/categories")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()

				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(body)).To(MatchJSON("[]"))
			})
		})
	})

	Describe("handleSummary", func() {
		BeforeEach(func() {
			db.transactions["tx-1"] = &Transaction{
				ID: "tx-1", Category: "Dining",
				Amount: decimal.RequireFromString("120.00"),
				Date:   time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
			}
		})

		When("year and month are given", func() {
			It("should return the summary for that month", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/summary?year=2024&month=6")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				var summary Summary
				Expect(json.NewDecoder(resp.Body).Decode(&summary)).To(Succeed())
				Expect(summary.Year).To(Equal(2024))
				Expect(summary.Month).To(Equal(time.June))
				Expect(summary.Total.Equal(decimal.RequireFromString("120.00"))).To(BeTrue())
			})
		})

		When("the month is out of range", func() {
			It("should return status Bad Request", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/summary?year=2024&month=13")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				resp.Body.Close()
			})
		})
	})

	Describe("basic auth", func() {
		BeforeEach(func() {
			auth = BasicAuth{Username: "user", Password: "secret"}
			setupServer()
		})

		When("no credentials are sent", func() {
			It("should return status Unauthorized", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/transactions")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
				Expect(resp.Header.Get("WWW-Authenticate")).To(ContainSubstring("Basic"))
				resp.Body.Close()
			})
		})

		When("the wrong credentials are sent", func() {
			It("should return status Unauthorized", func() {
				req, err := http.NewRequest("GET", ghttpServer.URL()+"/api/transactions", nil)
				Expect(err).NotTo(HaveOccurred())
				req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("user:wrong")))
				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
				resp.Body.Close()
			})
		})

		When("the right credentials are sent", func() {
			It("should serve the request", func() {
				req, err := http.NewRequest("GET", ghttpServer.URL()+"/api/transactions", nil)
				Expect(err).NotTo(HaveOccurred())
				req.SetBasicAuth("user", "secret")
				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				resp.Body.Close()
			})
		})
	})
})
