// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

// Package docs embeds the OpenAPI document served at /docs.
package docs

import "embed"

// SwaggerFS holds swagger.json
//
//go:embed swagger.json
var SwaggerFS embed.FS
