package offer

import (
	"github.com/sirosfoundation/vcionboard/pkg/form"
)

// GrantTypePreAuthorizedCode is the OAuth grant type of pre-authorized offers
const GrantTypePreAuthorizedCode = "urn:ietf:params:oauth:grant-type:pre-authorized_code"

// CreateOfferRequest is the request payload of the issuance agent's create-offer endpoint.
type CreateOfferRequest struct {
	CredentialIssuer            string       `json:"credential_issuer"`
	Grants                      Grants       `json:"grants"`
	CredentialDataSupplierInput form.Payload `json:"credentialDataSupplierInput"`
	CredentialConfigurationIDs  []string     `json:"credential_configuration_ids"`
}

// Grants lists the grants the offer can be redeemed with.
type Grants struct {
	PreAuthorizedCode *PreAuthorizedCodeGrant `json:"urn:ietf:params:oauth:grant-type:pre-authorized_code,omitempty"`
}

// PreAuthorizedCodeGrant binds the offer to a pre-authorized code.
type PreAuthorizedCodeGrant struct {
	PreAuthorizedCode string `json:"pre-authorized_code"`
}

// CreateOfferResponse is the issuance agent's answer.
type CreateOfferResponse struct {
	URI string `json:"uri"`
}

// Offer is a minted credential offer and the code that redeems it.
type Offer struct {
	URI         string `json:"uri"`
	PreAuthCode string `json:"preAuthCode"`
}
