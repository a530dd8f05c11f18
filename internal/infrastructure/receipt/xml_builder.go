// Package receipt construye el comprobante XML de una distribución y su digest canónico.
package receipt

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/vero-api/internal/application/ports"
)

const (
	Namespace    = "urn:vero:distribution:1"
	AlgC14N      = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	AlgSHA256    = "http://www.w3.org/2001/04/xmlenc#sha256"
	integrityTag = "Integrity"
)

// ErrDigestMismatch el contenido del comprobante no coincide con su digest.
var ErrDigestMismatch = errors.New("receipt: digest no coincide")

var _ ports.ReceiptBuilder = (*XMLBuilder)(nil)

// XMLBuilder implementa ports.ReceiptBuilder con etree y canonicalización C14N.
type XMLBuilder struct{}

// NewXMLBuilder construye el builder.
func NewXMLBuilder() *XMLBuilder { return &XMLBuilder{} }

// BuildReceipt arma el XML, calcula SHA-256 sobre su forma canónica y lo adjunta en <Integrity>.
func (b *XMLBuilder) BuildReceipt(st *ports.DistributionStatement) (*ports.Receipt, error) {
	if st == nil || st.Fund == nil || st.Receivable == nil {
		return nil, fmt.Errorf("receipt: extracto incompleto")
	}

	doc := etree.NewDocument()
	root := doc.CreateElement("DistributionReceipt")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("receivableId", st.Receivable.ID)
	root.CreateAttr("generatedAt", st.GeneratedAt.UTC().Format(time.RFC3339))

	fund := root.CreateElement("Fund")
	fund.CreateAttr("id", st.Fund.ID)
	fund.CreateAttr("symbol", st.Fund.Symbol)
	fund.CreateText(st.Fund.Name)

	rec := root.CreateElement("Receivable")
	rec.CreateElement("FaceValue").CreateText(st.Receivable.FaceValue.StringFixed(2))
	if st.Receivable.PaidValue != nil {
		rec.CreateElement("PaidValue").CreateText(st.Receivable.PaidValue.StringFixed(2))
	}
	if st.Receivable.PaidAt != nil {
		rec.CreateElement("PaidAt").CreateText(st.Receivable.PaidAt.UTC().Format(time.RFC3339))
	}
	rec.CreateElement("DueDate").CreateText(st.Receivable.DueDate.UTC().Format("2006-01-02"))

	if st.Sacado != nil {
		sacado := root.CreateElement("Sacado")
		sacado.CreateAttr("id", st.Sacado.ID)
		sacado.CreateAttr("document", st.Sacado.Document)
		sacado.CreateText(st.Sacado.Name)
	}

	lines := root.CreateElement("Distributions")
	for _, d := range st.Distributions {
		el := lines.CreateElement("Distribution")
		el.CreateAttr("orderId", d.OrderID)
		el.CreateAttr("quotas", strconv.FormatInt(d.Quotas, 10))
		el.CreateElement("Investor").CreateText(d.InvestorEmail)
		if d.InvestorPublicKey != "" {
			el.CreateElement("StellarPublicKey").CreateText(d.InvestorPublicKey)
		}
		el.CreateElement("Amount").CreateText(d.Amount.StringFixed(2))
	}

	totals := root.CreateElement("Totals")
	totals.CreateElement("Quotas").CreateText(strconv.FormatInt(st.TotalQuotas, 10))
	totals.CreateElement("Amount").CreateText(st.TotalToPay.StringFixed(2))

	digest, err := digestOf(doc)
	if err != nil {
		return nil, err
	}
	integrity := root.CreateElement(integrityTag)
	integrity.CreateAttr("canonicalization", AlgC14N)
	integrity.CreateAttr("digestMethod", AlgSHA256)
	integrity.CreateText(digest)

	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("receipt: serializar XML: %w", err)
	}
	return &ports.Receipt{XML: out.Bytes(), Digest: digest}, nil
}

// Verify recalcula el digest del comprobante (sin <Integrity>) y lo compara con el declarado.
func Verify(data []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return "", fmt.Errorf("receipt: parsear XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return "", fmt.Errorf("receipt: documento vacío")
	}
	integrity := root.SelectElement(integrityTag)
	if integrity == nil {
		return "", fmt.Errorf("receipt: falta el elemento %s", integrityTag)
	}
	declared := integrity.Text()
	root.RemoveChild(integrity)

	digest, err := digestOf(doc)
	if err != nil {
		return "", err
	}
	if digest != declared {
		return "", ErrDigestMismatch
	}
	return digest, nil
}

func digestOf(doc *etree.Document) (string, error) {
	raw, err := doc.WriteToBytes()
	if err != nil {
		return "", fmt.Errorf("receipt: serializar XML: %w", err)
	}
	canonical, err := canonicalizeXML(raw)
	if err != nil {
		return "", fmt.Errorf("receipt: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

func canonicalizeXML(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}
