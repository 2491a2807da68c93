package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltcert/voltcert-backend/internal/services"
)

type CertificateHandler struct {
	certService services.CertificateService
}

func NewCertificateHandler(certService services.CertificateService) *CertificateHandler {
	return &CertificateHandler{certService: certService}
}

func (ch *CertificateHandler) Generate(c *gin.Context) {
	testID, err := pathID(c, "test_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	cert, err := ch.certService.Generate(c.Request.Context(), testID)
	if err != nil {
		RespondFault(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"certificate": cert})
}

func (ch *CertificateHandler) ListByTest(c *gin.Context) {
	testID, err := pathID(c, "test_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	certs, err := ch.certService.ListByTest(c.Request.Context(), testID)
	if err != nil {
		RespondFault(c, err)
		return
	}
	RespondOK(c, gin.H{"certificates": certs})
}

func (ch *CertificateHandler) DownloadURL(c *gin.Context) {
	certID, err := pathID(c, "certificate_id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	url, err := ch.certService.DownloadURL(c.Request.Context(), certID)
	if err != nil {
		RespondFault(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}
