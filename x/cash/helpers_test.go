package cash

import "encoding/json"

func toOptions(raw string, opts interface{}) error {
	return json.Unmarshal([]byte(raw), opts)
}
