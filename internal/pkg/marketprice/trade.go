package marketprice

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// TradeRecord is one apartment sale as reported by the MOLIT trade API.
// DealAmount is in units of 10,000 won and may contain thousands separators.
type TradeRecord struct {
	AptName    FlexString `json:"aptNm"`
	AptDong    FlexString `json:"aptDong"`
	DealAmount FlexString `json:"dealAmount"`
	CdealType  FlexString `json:"cdealType"`
	DealYear   FlexString `json:"dealYear"`
	DealMonth  FlexString `json:"dealMonth"`
	DealDay    FlexString `json:"dealDay"`
	ExcluUseAr FlexString `json:"excluUseAr"`
	Floor      FlexString `json:"floor"`
	UmdNm      FlexString `json:"umdNm"`
	SggCd      FlexString `json:"sggCd"`
}

// CancelledDealMarker is the cdealType value of a cancelled contract.
const CancelledDealMarker = "O"

func (t TradeRecord) IsCancelled() bool {
	return strings.TrimSpace(string(t.CdealType)) == CancelledDealMarker
}

// FlexString accepts JSON strings, numbers and null. The API sends numeric
// fields either way depending on the value.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	*f = FlexString(string(b))
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

type apiResponse struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items      json.RawMessage `json:"items"`
			TotalCount FlexString      `json:"totalCount"`
		} `json:"body"`
	} `json:"response"`
}

// decodeTrades reads the response.body.items.item path. The API returns an object
// for a single trade, a list for several and an empty string for none.
func decodeTrades(body []byte) ([]TradeRecord, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode trade response: %w", err)
	}

	code := strings.TrimSpace(resp.Response.Header.ResultCode)
	if code != "" && code != "00" && code != "000" {
		return nil, fmt.Errorf("trade api error: code=%s msg=%s", code, resp.Response.Header.ResultMsg)
	}

	items := bytes.TrimSpace(resp.Response.Body.Items)
	if len(items) == 0 || items[0] != '{' {
		return []TradeRecord{}, nil
	}

	var wrapper struct {
		Item json.RawMessage `json:"item"`
	}
	if err := json.Unmarshal(items, &wrapper); err != nil {
		return nil, fmt.Errorf("decode trade items: %w", err)
	}

	item := bytes.TrimSpace(wrapper.Item)
	if len(item) == 0 {
		return []TradeRecord{}, nil
	}
	switch item[0] {
	case '[':
		var list []TradeRecord
		if err := json.Unmarshal(item, &list); err != nil {
			return nil, fmt.Errorf("decode trade list: %w", err)
		}
		return list, nil
	case '{':
		var one TradeRecord
		if err := json.Unmarshal(item, &one); err != nil {
			return nil, fmt.Errorf("decode trade item: %w", err)
		}
		return []TradeRecord{one}, nil
	default:
		return []TradeRecord{}, nil
	}
}
