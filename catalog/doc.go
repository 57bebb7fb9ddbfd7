// Copyright 2025 Madvet Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package catalog provides cached access to the product catalog.
//
// A Source produces the full catalog; the Cache wraps a Source with a TTL
// snapshot and stampede protection. Concurrent refreshes collapse into one
// upstream fetch, and a failed refresh serves the previous snapshot rather
// than an error, so search keeps working through upstream outages.
package catalog
